package id

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/sony/sonyflake"
)

// 基准时间 - 2024年1月1日
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Generator 告警和站内通知的 ID 生成器，*sonyflake.Sonyflake 满足这个接口
type Generator interface {
	NextID() (uint64, error)
}

// NewSonyflake 多实例部署的时候 machineID 必须不同，为 0 时使用私有 IP 的低 16 位
func NewSonyflake(machineID uint16) (*sonyflake.Sonyflake, error) {
	settings := sonyflake.Settings{
		StartTime: epoch,
	}
	if machineID > 0 {
		settings.MachineID = func() (uint16, error) {
			return machineID, nil
		}
	}
	sf := sonyflake.NewSonyflake(settings)
	if sf == nil {
		return nil, errors.New("初始化 sonyflake 失败")
	}
	return sf, nil
}

// SequenceGenerator 单调递增，测试和单机工具使用
type SequenceGenerator struct {
	seq atomic.Uint64
}

func NewSequenceGenerator(start uint64) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.seq.Store(start)
	return g
}

func (g *SequenceGenerator) NextID() (uint64, error) {
	return g.seq.Add(1), nil
}
