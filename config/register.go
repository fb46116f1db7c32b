package config

import (
	"github.com/gocrud/injection/di"
)

// AddConfiguration 将已构建的配置注册为单例实例
// 重复调用不会覆盖已有注册。
func AddConfiguration(services *di.ServiceCollection, config Configuration) *di.ServiceCollection {
	di.TryAddInstance[Configuration](services, config)
	return services
}

// ConfigureOptions 将配置节绑定注册为 Option[T] 单例
// 绑定在首次取值时惰性执行，同一配置节的重复注册会被忽略。
func ConfigureOptions[T any](services *di.ServiceCollection, config Configuration, section string) *di.ServiceCollection {
	cache := NewOptionsCache[T](config, section)
	di.TryAddSingletonFactory[Option[T]](services, func(_ di.ServiceProvider) Option[T] {
		return NewOption(cache)
	})
	return services
}

// ConfigureSnapshot 将配置节绑定注册为 OptionSnapshot[T] 作用域服务
// 每个作用域创建时重新绑定，可观察到两次作用域之间的配置变化。
func ConfigureSnapshot[T any](services *di.ServiceCollection, config Configuration, section string) *di.ServiceCollection {
	di.TryAddScopedFactory[OptionSnapshot[T]](services, func(_ di.ServiceProvider) OptionSnapshot[T] {
		var value T
		_ = config.Bind(section, &value)
		return NewOptionSnapshot(value)
	})
	return services
}
