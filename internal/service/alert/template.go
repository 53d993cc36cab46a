package alert

import (
	"fmt"
	"regexp"

	"gitee.com/flycash/alert-platform/internal/domain"
)

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// RenderTemplate 用触发上下文替换 {{key}}，找不到的占位符原样保留
func RenderTemplate(tpl string, ctx map[string]any) string {
	if tpl == "" || len(ctx) == 0 {
		return tpl
	}
	return placeholder.ReplaceAllStringFunc(tpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		val, ok := ctx[key]
		if !ok {
			return m
		}
		return fmt.Sprint(val)
	})
}

// RenderMessage 渲染规则上的标题、正文和跳转链接
func RenderMessage(tpl domain.MessageTemplate, ctx map[string]any) domain.MessageTemplate {
	return domain.MessageTemplate{
		Title:     RenderTemplate(tpl.Title, ctx),
		Message:   RenderTemplate(tpl.Message, ctx),
		ActionURL: RenderTemplate(tpl.ActionURL, ctx),
	}
}
