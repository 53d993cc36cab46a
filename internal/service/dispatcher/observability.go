package dispatcher

import (
	"context"
	"strconv"

	"gitee.com/flycash/alert-platform/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityDispatcher 为告警通知添加链路追踪的装饰器
type ObservabilityDispatcher struct {
	dispatcher Dispatcher
	tracer     trace.Tracer
}

func NewObservabilityDispatcher(d Dispatcher) *ObservabilityDispatcher {
	return &ObservabilityDispatcher{
		dispatcher: d,
		tracer:     otel.Tracer("alert-platform/dispatcher"),
	}
}

func (o *ObservabilityDispatcher) Dispatch(ctx context.Context, alert domain.Alert, rule domain.AlertRule) (domain.Alert, error) {
	ctx, span := o.tracer.Start(ctx, "Dispatcher.Dispatch",
		trace.WithAttributes(
			attribute.String("alert.id", strconv.FormatUint(alert.ID, 10)),
			attribute.Int64("alert.ruleId", alert.RuleID),
			attribute.String("alert.type", alert.AlertType.String()),
			attribute.String("alert.severity", alert.Severity.String()),
		))
	defer span.End()

	res, err := o.dispatcher.Dispatch(ctx, alert, rule)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		sent := 0
		for _, r := range res.Recipients {
			if !r.SentAt.IsZero() {
				sent++
			}
		}
		span.SetAttributes(
			attribute.String("alert.status", res.Status.String()),
			attribute.Int("alert.recipients", len(res.Recipients)),
			attribute.Int("alert.sent", sent),
		)
	}
	return res, err
}
