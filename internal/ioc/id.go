package ioc

import (
	id "gitee.com/flycash/alert-platform/internal/pkg/id_generator"
	"github.com/gotomicro/ego/core/econf"
)

func InitIDGenerator() id.Generator {
	// machineID 为 0 的时候按私有 IP 计算
	machineID := econf.GetInt("idGenerator.machineID")
	sf, err := id.NewSonyflake(uint16(machineID))
	if err != nil {
		panic(err)
	}
	return sf
}
