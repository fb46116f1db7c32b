package etcd

import (
	"fmt"
	"time"
)

// ClientOptions etcd 客户端配置选项
type ClientOptions struct {
	Name               string        `yaml:"name"`
	Endpoints          []string      `yaml:"endpoints"`
	DialTimeout        time.Duration `yaml:"dialTimeout"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	AutoSyncInterval   time.Duration `yaml:"autoSyncInterval"`
	MaxCallSendMsgSize int           `yaml:"maxCallSendMsgSize"`
	MaxCallRecvMsgSize int           `yaml:"maxCallRecvMsgSize"`
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string) *ClientOptions {
	return &ClientOptions{
		Name:        name,
		Endpoints:   []string{"localhost:2379"},
		DialTimeout: 5 * time.Second,
	}
}

// Validate 验证配置
func (o *ClientOptions) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("etcd client name is required")
	}
	if len(o.Endpoints) == 0 {
		return fmt.Errorf("etcd endpoints are required")
	}
	if o.DialTimeout <= 0 {
		return fmt.Errorf("etcd dial timeout must be positive")
	}
	return nil
}
