package core

import (
	"sync"

	"github.com/gocrud/injection/config"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/hosting"
	"github.com/gocrud/injection/logging"
)

// Configurator 配置器函数类型
// 配置器用于扩展应用程序，可以注册服务、添加托管服务等
type Configurator func(*BuildContext)

// BuildContext 构建上下文
// 提供给配置器的上下文环境，包含服务集合、配置、日志等核心组件
type BuildContext struct {
	services      *di.ServiceCollection
	configuration config.Configuration
	logger        logging.Logger
	environment   Environment
	features      *FeatureCollection

	cleanups map[string]func()
	mu       sync.Mutex
}

// Services 返回底层服务集合
// 用于 di.AddSingleton[T](ctx.Services()) 等直接注册
func (c *BuildContext) Services() *di.ServiceCollection {
	return c.services
}

// AddHostedService 将服务实例追加为 HostedService 注册
func (c *BuildContext) AddHostedService(service hosting.HostedService) {
	hosting.AddHostedInstance(c.services, service)
}

// SetFeature 登记构建时特性 (WebHost, DatabaseFactory 等)
// 之后可通过 core.GetFeature[T](composition) 取回
func (c *BuildContext) SetFeature(feature any) {
	c.features.Set(feature)
}

// SetCleanup 设置资源清理函数，同名键覆盖
func (c *BuildContext) SetCleanup(key string, cleanup func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanups[key] = cleanup
}

// GetLogger 获取日志记录器
func (c *BuildContext) GetLogger() logging.Logger {
	return c.logger
}

// GetConfiguration 获取配置对象
func (c *BuildContext) GetConfiguration() config.Configuration {
	return c.configuration
}

// GetEnvironment 获取环境信息
func (c *BuildContext) GetEnvironment() Environment {
	return c.environment
}

// ConfigureOptions 将配置节注册为 Option[T] 与 OptionSnapshot[T]
// section: 配置节名称（例如 "app", "database"）
func ConfigureOptions[T any](ctx *BuildContext, section string) {
	config.ConfigureOptions[T](ctx.services, ctx.configuration, section)
	config.ConfigureSnapshot[T](ctx.services, ctx.configuration, section)

	ctx.logger.Debug("Configured options",
		logging.Field{Key: "type", Value: di.TypeOf[T]().String()},
		logging.Field{Key: "section", Value: section})
}
