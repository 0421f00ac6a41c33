package config

import (
	"errors"
	"time"

	"go.uber.org/multierr"
)

// DemoConfig 演示程序配置
type DemoConfig struct {
	// RopeCycle 跳绳转一圈的时间
	// 默认 2.6s
	RopeCycle Duration `json:"rope_cycle"`

	// AirTime 起跳到落地的时间
	// 默认 2.2s
	AirTime Duration `json:"air_time"`
}

// DefaultDemoConfig 返回默认演示配置
func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		RopeCycle: Duration(2600 * time.Millisecond),
		AirTime:   Duration(2200 * time.Millisecond),
	}
}

// Validate 验证演示配置
func (c DemoConfig) Validate() error {
	var err error
	if c.RopeCycle <= 0 {
		err = multierr.Append(err, errors.New("demo.rope_cycle must be positive"))
	}
	if c.AirTime <= 0 {
		err = multierr.Append(err, errors.New("demo.air_time must be positive"))
	}
	return err
}
