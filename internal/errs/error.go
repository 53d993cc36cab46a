package errs

import (
	"errors"
)

// 定义统一的错误类型
var (
	ErrInvalidParameter = errors.New("参数错误")

	ErrAlertRuleNotFound = errors.New("告警规则不存在")
	ErrGoalNotFound      = errors.New("目标不存在")

	// ErrGoalProgressConflict 读出目标之后，目标被别人修改过或者已经进入终态
	ErrGoalProgressConflict = errors.New("目标进度写回冲突")

	ErrAlertNotFound          = errors.New("告警记录不存在")
	ErrAlertDuplicate         = errors.New("告警记录去重键冲突")
	ErrAlertVersionMismatch   = errors.New("告警记录版本不匹配")
	ErrInvalidAlertTransition = errors.New("告警状态流转不合法")
	ErrRecipientNotFound      = errors.New("告警接收人不存在")

	ErrNotificationNotFound = errors.New("通知记录不存在")

	ErrSchedulerStarted    = errors.New("调度器已经启动")
	ErrSchedulerNotStarted = errors.New("调度器尚未启动")
)
