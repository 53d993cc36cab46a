package ioc

import (
	"gitee.com/flycash/alert-platform/internal/domain"
	id "gitee.com/flycash/alert-platform/internal/pkg/id_generator"
	"gitee.com/flycash/alert-platform/internal/pkg/retry"
	"gitee.com/flycash/alert-platform/internal/repository"
	"gitee.com/flycash/alert-platform/internal/service/alert"
	"github.com/gotomicro/ego/core/econf"
)

func InitAlertService(repo repository.AlertRepository) alert.Service {
	cfg := retry.DefaultConfig()
	err := econf.UnmarshalKey("alert.retry", &cfg)
	if err != nil {
		panic(err)
	}
	return alert.NewService(repo, cfg)
}

func InitDeduplicator(repo repository.AlertRepository, idGen id.Generator) alert.Deduplicator {
	expiration := econf.GetDuration("alert.expiration")
	if expiration <= 0 {
		expiration = domain.DefaultAlertExpiration
	}
	return alert.NewDeduplicator(repo, idGen, expiration)
}
