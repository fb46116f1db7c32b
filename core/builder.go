package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/injection/config"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/logging"
)

// ApplicationBuilder 应用程序构建器
// 收集配置、日志与服务注册，Build 时汇总为不可变的组合结果。
type ApplicationBuilder struct {
	environment          string
	configBuilder        *config.ConfigurationBuilder
	loggingBuilder       *logging.LoggingBuilder
	serviceConfigurators []func(*di.ServiceCollection)
	configurators        []Configurator
	shutdownTimeout      time.Duration
	mu                   sync.RWMutex
}

// NewApplicationBuilder 创建应用程序构建器
func NewApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{
		environment:     "development",
		configBuilder:   config.NewConfigurationBuilder(),
		loggingBuilder:  logging.NewLoggingBuilder(),
		shutdownTimeout: 30 * time.Second,
	}
}

// UseEnvironment 设置环境
func (b *ApplicationBuilder) UseEnvironment(env string) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.environment = env
	return b
}

// UseShutdownTimeout 设置关闭超时
func (b *ApplicationBuilder) UseShutdownTimeout(timeout time.Duration) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdownTimeout = timeout
	return b
}

// ConfigureConfiguration 配置配置系统
func (b *ApplicationBuilder) ConfigureConfiguration(configure func(*config.ConfigurationBuilder)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		configure(b.configBuilder)
	}
	return b
}

// ConfigureLogging 配置日志系统
func (b *ApplicationBuilder) ConfigureLogging(configure func(*logging.LoggingBuilder)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		configure(b.loggingBuilder)
	}
	return b
}

// ConfigureServices 配置服务
// 多次调用按顺序执行
func (b *ApplicationBuilder) ConfigureServices(configure func(*di.ServiceCollection)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		b.serviceConfigurators = append(b.serviceConfigurators, configure)
	}
	return b
}

// Configure 添加配置器（支持链式调用和可变参数）
// 接受 Configurator 或任何 func(*BuildContext) 类型的函数
func (b *ApplicationBuilder) Configure(configurators ...interface{}) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range configurators {
		switch fn := c.(type) {
		case Configurator:
			b.configurators = append(b.configurators, fn)
		case func(*BuildContext):
			b.configurators = append(b.configurators, fn)
		default:
			panic(fmt.Sprintf("configurator must be func(*BuildContext) or core.Configurator, got %T", c))
		}
	}
	return b
}

// AddExtension 添加应用程序扩展
func (b *ApplicationBuilder) AddExtension(ext Extension) *ApplicationBuilder {
	validateExtension(ext)

	b.mu.Lock()
	defer b.mu.Unlock()

	if sc, ok := ext.(ServiceConfigurator); ok {
		b.serviceConfigurators = append(b.serviceConfigurators, sc.ConfigureServices)
	}
	if bc, ok := ext.(BuilderConfigurator); ok {
		b.configurators = append(b.configurators, bc.ConfigureBuilder)
	}
	return b
}

// AddOptions 注册配置选项（语法糖）
// 使用示例: core.AddOptions[AppSetting](builder, "app")
func AddOptions[T any](b *ApplicationBuilder, section string) *ApplicationBuilder {
	return b.Configure(func(ctx *BuildContext) {
		ConfigureOptions[T](ctx, section)
	})
}

// AddTask 添加一个简单的后台任务
func (b *ApplicationBuilder) AddTask(task func(ctx context.Context) error) *ApplicationBuilder {
	return b.Configure(func(ctx *BuildContext) {
		ctx.AddHostedService(&functionalService{task: task})
	})
}

// functionalService 函数式托管服务
type functionalService struct {
	task func(ctx context.Context) error
}

func (f *functionalService) Start(ctx context.Context) error {
	return f.task(ctx)
}

func (f *functionalService) Stop(ctx context.Context) error {
	return nil
}

// Build 构建应用程序组合结果
// 执行顺序：配置 -> 日志 -> 框架注册 -> 配置器 -> 服务配置器 -> 冻结集合
func (b *ApplicationBuilder) Build() (*Composition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cfg, err := b.configBuilder.Build()
	if err != nil {
		return nil, fmt.Errorf("injection: failed to build configuration: %w", err)
	}

	loggerFactory := b.loggingBuilder.Build()
	logger := loggerFactory.CreateLogger("Application")
	env := NewEnvironment(b.environment)

	logger.Info("Building application",
		logging.Field{Key: "environment", Value: env.Name()})

	services := di.NewServiceCollection()

	// 框架核心实例先注册，用户注册的同类型服务通过 Replace 覆盖
	config.AddConfiguration(services, cfg)
	logging.AddLoggingFactory(services, loggerFactory)
	di.TryAddInstance[Environment](services, env)

	cleanups := make(map[string]func())
	composition := &Composition{
		services:        services,
		configuration:   cfg,
		loggerFactory:   loggerFactory,
		logger:          logger,
		environment:     env,
		lifecycle:       NewLifecycle(),
		cleanups:        cleanups,
		shutdownTimeout: b.shutdownTimeout,
		stopCh:          make(chan struct{}),
	}

	buildContext := &BuildContext{
		services:      services,
		configuration: cfg,
		logger:        logger,
		environment:   env,
		features:      &composition.Features,
		cleanups:      cleanups,
	}

	for _, configurator := range b.configurators {
		configurator(buildContext)
	}
	for _, configurator := range b.serviceConfigurators {
		configurator(services)
	}

	services.MakeReadOnly()

	logger.Info("Service registrations frozen",
		logging.Field{Key: "count", Value: services.Count()})

	composition.provider = newRegistryProvider(services, composition)
	return composition, nil
}
