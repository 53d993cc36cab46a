package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"gitee.com/flycash/alert-platform/internal/domain"
	"gitee.com/flycash/alert-platform/internal/errs"
	"gitee.com/flycash/alert-platform/internal/pkg/ratelimit"
	"gitee.com/flycash/alert-platform/internal/repository"
	alertsvc "gitee.com/flycash/alert-platform/internal/service/alert"
	goalsvc "gitee.com/flycash/alert-platform/internal/service/goal"
	"gitee.com/flycash/alert-platform/internal/service/rule"
	"github.com/ecodeclub/ekit/slice"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Ticker 手动触发一轮告警调度
//
//go:generate mockgen -source=./handler.go -destination=./mocks/handler.mock.go -package=webmocks Ticker
type Ticker interface {
	Tick(ctx context.Context) (domain.TickSummary, error)
}

type Handler struct {
	ticker    Ticker
	rules     repository.AlertRuleRepository
	goals     repository.GoalRepository
	evaluator rule.Evaluator
	alertSvc  alertsvc.Service
	goalSvc   goalsvc.Service
	auth      *JwtAuth
	limiter   ratelimit.Limiter
	logger    *elog.Component
}

func NewHandler(
	ticker Ticker,
	rules repository.AlertRuleRepository,
	goals repository.GoalRepository,
	evaluator rule.Evaluator,
	alertSvc alertsvc.Service,
	goalSvc goalsvc.Service,
	auth *JwtAuth,
	limiter ratelimit.Limiter,
) *Handler {
	return &Handler{
		ticker:    ticker,
		rules:     rules,
		goals:     goals,
		evaluator: evaluator,
		alertSvc:  alertSvc,
		goalSvc:   goalSvc,
		auth:      auth,
		limiter:   limiter,
		logger:    elog.DefaultLogger,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	alerts := server.Group("/alerts", h.auth.Middleware())
	alerts.POST("/scheduler/tick", h.requireAdmin, h.limitTick, h.Tick)
	alerts.POST("/rules/:id/evaluate", h.requireAdmin, h.EvaluateRule)
	alerts.GET("", h.ListAlerts)
	alerts.POST("/:id/acknowledge", h.Acknowledge)
	alerts.POST("/:id/resolve", h.Resolve)
	alerts.POST("/:id/dismiss", h.Dismiss)
	alerts.POST("/:id/read", h.MarkRead)

	goals := server.Group("/goals", h.auth.Middleware())
	goals.POST("/:id/refresh", h.RefreshGoal)
}

func (h *Handler) requireAdmin(ctx *gin.Context) {
	id, err := identityFrom(ctx)
	if err != nil || id.Role != domain.RoleAdmin {
		ctx.AbortWithStatusJSON(http.StatusForbidden, Result{Code: CodeForbidden, Msg: "需要管理员权限"})
		return
	}
	ctx.Next()
}

// limitTick 手动调度按组织限流，限流器出错的时候放行
func (h *Handler) limitTick(ctx *gin.Context) {
	id, err := identityFrom(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	limited, err := h.limiter.Limit(ctx.Request.Context(), fmt.Sprintf("alert:tick:%d", id.OrgID))
	if err != nil {
		h.logger.Warn("手动调度限流判断失败",
			elog.Int64("orgID", id.OrgID),
			elog.FieldErr(err))
		ctx.Next()
		return
	}
	if limited {
		ctx.AbortWithStatusJSON(http.StatusTooManyRequests, Result{Code: CodeTooManyRequests, Msg: "请求过于频繁"})
		return
	}
	ctx.Next()
}

func (h *Handler) Tick(ctx *gin.Context) {
	// 请求超时或者客户端断开，已经开始的一轮调度也要执行完
	summary, err := h.ticker.Tick(context.WithoutCancel(ctx.Request.Context()))
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, Result{Data: summary})
}

func (h *Handler) EvaluateRule(ctx *gin.Context) {
	id, err := identityFrom(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ruleID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		h.fail(ctx, errs.ErrInvalidParameter)
		return
	}
	r, err := h.rules.GetByID(ctx.Request.Context(), ruleID)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if r.OrgID != id.OrgID {
		h.fail(ctx, errs.ErrAlertRuleNotFound)
		return
	}
	res, err := h.evaluator.Evaluate(ctx.Request.Context(), r, time.Now())
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, Result{Data: EvaluateResp{
		ShouldTrigger: res.ShouldTrigger,
		SourceType:    res.SourceType.String(),
		SourceID:      res.SourceID,
		Context:       res.Context,
	}})
}

func (h *Handler) ListAlerts(ctx *gin.Context) {
	id, err := identityFrom(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	offset, err := queryInt(ctx, "offset", 0)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	limit, err := queryInt(ctx, "limit", defaultListLimit)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	limit = min(limit, maxListLimit)
	alerts, err := h.alertSvc.List(ctx.Request.Context(), id.OrgID, domain.AlertStatus(ctx.Query("status")), offset, limit)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, Result{Data: ListAlertsResp{
		Alerts: slice.Map(alerts, func(_ int, src domain.Alert) AlertVO {
			return newAlertVO(src)
		}),
	}})
}

func (h *Handler) Acknowledge(ctx *gin.Context) {
	h.mutate(ctx, func(c context.Context, id Identity, alertID uint64) (domain.Alert, error) {
		return h.alertSvc.Acknowledge(c, id.OrgID, alertID, id.UserID)
	})
}

func (h *Handler) Resolve(ctx *gin.Context) {
	var req ResolveReq
	if err := bindOptional(ctx, &req); err != nil {
		h.fail(ctx, err)
		return
	}
	h.mutate(ctx, func(c context.Context, id Identity, alertID uint64) (domain.Alert, error) {
		return h.alertSvc.Resolve(c, id.OrgID, alertID, id.UserID, req.Notes)
	})
}

func (h *Handler) Dismiss(ctx *gin.Context) {
	var req DismissReq
	if err := bindOptional(ctx, &req); err != nil {
		h.fail(ctx, err)
		return
	}
	h.mutate(ctx, func(c context.Context, id Identity, alertID uint64) (domain.Alert, error) {
		return h.alertSvc.Dismiss(c, id.OrgID, alertID, id.UserID, req.Reason)
	})
}

func (h *Handler) MarkRead(ctx *gin.Context) {
	h.mutate(ctx, func(c context.Context, id Identity, alertID uint64) (domain.Alert, error) {
		return h.alertSvc.MarkRead(c, id.OrgID, alertID, id.UserID)
	})
}

func (h *Handler) mutate(ctx *gin.Context, fn func(c context.Context, id Identity, alertID uint64) (domain.Alert, error)) {
	id, err := identityFrom(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	alertID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		h.fail(ctx, errs.ErrInvalidParameter)
		return
	}
	a, err := fn(ctx.Request.Context(), id, alertID)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, Result{Data: newAlertVO(a)})
}

func (h *Handler) RefreshGoal(ctx *gin.Context) {
	id, err := identityFrom(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	goalID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		h.fail(ctx, errs.ErrInvalidParameter)
		return
	}
	g, err := h.goals.GetByID(ctx.Request.Context(), goalID)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	if g.OrgID != id.OrgID {
		h.fail(ctx, errs.ErrGoalNotFound)
		return
	}
	g, events, err := h.goalSvc.RefreshGoal(ctx.Request.Context(), g)
	if err != nil {
		h.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, Result{Data: RefreshGoalResp{
		ID:          g.ID,
		Name:        g.Name,
		Percentage:  g.Progress.Percentage,
		Status:      g.Status.String(),
		CompletedAt: millis(g.CompletedAt),
		Events: slice.Map(events, func(_ int, src domain.GoalEvent) GoalEventVO {
			return GoalEventVO{
				Type:         string(src.Type),
				Threshold:    src.Threshold,
				Percentage:   src.Percentage,
				TimeProgress: src.TimeProgress,
			}
		}),
	}})
}

func (h *Handler) fail(ctx *gin.Context, err error) {
	status, code := http.StatusInternalServerError, CodeInternal
	switch {
	case errors.Is(err, errs.ErrInvalidParameter):
		status, code = http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, errIdentityNotFound):
		status, code = http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, errs.ErrAlertNotFound), errors.Is(err, errs.ErrAlertRuleNotFound),
		errors.Is(err, errs.ErrGoalNotFound), errors.Is(err, errs.ErrRecipientNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrInvalidAlertTransition), errors.Is(err, errs.ErrAlertVersionMismatch),
		errors.Is(err, errs.ErrGoalProgressConflict):
		status, code = http.StatusConflict, CodeConflict
	default:
		h.logger.Error("处理请求失败",
			elog.String("path", ctx.FullPath()),
			elog.FieldErr(err))
		ctx.AbortWithStatusJSON(status, Result{Code: code, Msg: "系统错误"})
		return
	}
	ctx.AbortWithStatusJSON(status, Result{Code: code, Msg: err.Error()})
}

func queryInt(ctx *gin.Context, key string, def int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.ErrInvalidParameter
	}
	return v, nil
}

// bindOptional 请求体可以为空
func bindOptional(ctx *gin.Context, req any) error {
	if ctx.Request.Body == nil || ctx.Request.Body == http.NoBody {
		return nil
	}
	if err := ctx.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errs.ErrInvalidParameter, err)
	}
	return nil
}
