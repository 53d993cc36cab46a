package ioc

import (
	"gitee.com/flycash/alert-platform/internal/service/alert"
)

func InitTasks(t1 *alert.ExpiryTask) []Task {
	return []Task{
		t1,
	}
}
