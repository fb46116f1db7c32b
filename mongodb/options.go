package mongodb

import (
	"fmt"
	"time"
)

// Options MongoDB 客户端配置选项
type Options struct {
	Name        string        `yaml:"name"`
	Uri         string        `yaml:"uri"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	MaxPoolSize uint64        `yaml:"maxPoolSize"`
	MinPoolSize uint64        `yaml:"minPoolSize"`
	Timeout     time.Duration `yaml:"timeout"`
}

// NewDefaultOptions 创建默认配置
func NewDefaultOptions(name string, uri string) *Options {
	return &Options{
		Name:        name,
		Uri:         uri,
		MaxPoolSize: 100,
		MinPoolSize: 5,
		Timeout:     10 * time.Second,
	}
}

// Validate 验证配置
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("mongo client name is required")
	}
	if o.Uri == "" {
		return fmt.Errorf("mongo uri is required")
	}
	return nil
}
