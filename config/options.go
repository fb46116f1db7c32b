package config

import (
	"fmt"
	"sync"
)

// Option 静态配置选项（类似于 .NET Core IOptions[T]）
// 首次取值时从配置绑定，之后缓存不变。
type Option[T any] interface {
	Value() T
}

// OptionSnapshot 快照配置选项
// 每次由提供者按作用域创建时重新绑定，作用域内保持不变。
type OptionSnapshot[T any] interface {
	Value() T
}

// OptionsCache 配置绑定缓存
// 封装一个配置节到 T 的绑定，绑定惰性执行且只执行一次。
type OptionsCache[T any] struct {
	config  Configuration
	section string

	once    sync.Once
	current T
	bindErr error
}

// NewOptionsCache 创建配置绑定缓存
func NewOptionsCache[T any](config Configuration, section string) *OptionsCache[T] {
	return &OptionsCache[T]{config: config, section: section}
}

// Get 获取绑定值，首次调用执行绑定
// 配置节缺失或绑定失败时返回零值。
func (c *OptionsCache[T]) Get() T {
	c.once.Do(func() {
		c.bindErr = c.config.Bind(c.section, &c.current)
	})
	if c.bindErr != nil {
		var zero T
		return zero
	}
	return c.current
}

// Bind 立即执行一次独立绑定，返回绑定错误
// 用于需要感知配置缺失的调用方。
func (c *OptionsCache[T]) Bind() (T, error) {
	var value T
	if err := c.config.Bind(c.section, &value); err != nil {
		return value, fmt.Errorf("config: failed to bind options section %q: %w", c.section, err)
	}
	return value, nil
}

// option 实现 Option[T]
type option[T any] struct {
	cache *OptionsCache[T]
}

func (o *option[T]) Value() T {
	return o.cache.Get()
}

// NewOption 基于绑定缓存创建静态配置选项
func NewOption[T any](cache *OptionsCache[T]) Option[T] {
	return &option[T]{cache: cache}
}

// optionSnapshot 实现 OptionSnapshot[T]
type optionSnapshot[T any] struct {
	value T
}

func (o *optionSnapshot[T]) Value() T {
	return o.value
}

// NewOptionSnapshot 包装一次独立绑定的结果
func NewOptionSnapshot[T any](value T) OptionSnapshot[T] {
	return &optionSnapshot[T]{value: value}
}
