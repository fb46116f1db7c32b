package cron

import (
	"fmt"
	"reflect"

	"github.com/gocrud/injection/core"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/hosting"
	"github.com/gocrud/injection/logging"
)

// Builder Cron 配置构建器
type Builder struct {
	enableSeconds    bool
	enableCronLogger bool
	jobs             []jobDefinition
}

// jobDefinition 任务定义
type jobDefinition struct {
	spec     string
	name     string
	handler  func()
	injected any // 参数由提供者解析的函数
}

// NewBuilder 创建 Cron 构建器
func NewBuilder() *Builder {
	return &Builder{}
}

// WithSeconds 启用秒级精度
func (b *Builder) WithSeconds() *Builder {
	b.enableSeconds = true
	return b
}

// EnableCronLogger 启用 cron 库的内部调度日志
func (b *Builder) EnableCronLogger() *Builder {
	b.enableCronLogger = true
	return b
}

// AddJob 添加简单任务
func (b *Builder) AddJob(spec, name string, handler func()) *Builder {
	b.jobs = append(b.jobs, jobDefinition{spec: spec, name: name, handler: handler})
	return b
}

// AddInjectedJob 添加参数自动注入的任务
// handler 可以是任何函数，参数在每次触发时从服务提供者解析。
//
// 示例：
//
//	builder.AddInjectedJob("0 */5 * * * *", "sync-data", func(logger logging.Logger) {
//	    logger.Info("sync")
//	})
func (b *Builder) AddInjectedJob(spec, name string, handler any) *Builder {
	b.jobs = append(b.jobs, jobDefinition{spec: spec, name: name, injected: handler})
	return b
}

// Build 构建 Cron 托管服务
// provider 用于解析注入式任务的参数，没有注入式任务时可以为 nil。
func (b *Builder) Build(logger logging.Logger, provider di.ServiceProvider) (*Service, error) {
	service := newService(logger, serviceOptions{
		EnableSeconds:    b.enableSeconds,
		EnableCronLogger: b.enableCronLogger,
	})

	for _, job := range b.jobs {
		handler := job.handler
		if handler == nil {
			wrapped, err := wrapInjectedHandler(provider, logger, job.injected)
			if err != nil {
				return nil, fmt.Errorf("failed to wrap job '%s': %w", job.name, err)
			}
			handler = wrapped
		}
		if err := service.AddJob(job.spec, job.name, handler); err != nil {
			return nil, err
		}
	}
	return service, nil
}

// wrapInjectedHandler 包装处理器，触发时从提供者解析参数
func wrapInjectedHandler(provider di.ServiceProvider, logger logging.Logger, handler any) (func(), error) {
	handlerValue := reflect.ValueOf(handler)
	handlerType := handlerValue.Type()

	if handlerType.Kind() != reflect.Func {
		return nil, fmt.Errorf("handler must be a function, got %v", handlerType.Kind())
	}
	if provider == nil {
		return nil, fmt.Errorf("injected jobs require a service provider")
	}

	return func() {
		args := make([]reflect.Value, handlerType.NumIn())
		for i := range args {
			paramType := handlerType.In(i)
			instance, err := provider.GetService(paramType)
			if err != nil {
				if logger != nil {
					logger.Error(fmt.Sprintf("Failed to resolve parameter %d (%v) for cron job", i, paramType),
						logging.Field{Key: "error", Value: err.Error()})
				}
				return
			}
			args[i] = reflect.ValueOf(instance)
		}
		handlerValue.Call(args)
	}, nil
}

// AddCron 将 Cron 服务注册为托管服务
// 服务通过工厂描述符注册，注入式任务在服务创建时绑定提供者。
func AddCron(services *di.ServiceCollection, configure func(*Builder)) *di.ServiceCollection {
	builder := NewBuilder()
	if configure != nil {
		configure(builder)
	}
	if len(builder.jobs) == 0 {
		return services
	}

	hosting.AddHostedFactory(services, func(provider di.ServiceProvider) hosting.HostedService {
		logger := resolveLogger(provider)
		service, err := builder.Build(logger, provider)
		if err != nil {
			panic(fmt.Sprintf("cron: %v", err))
		}
		return service
	})
	return services
}

// Configure 返回 Cron 配置器
// 使用示例: builder.Configure(cron.Configure(func(b *cron.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		AddCron(ctx.Services(), options)
	}
}

func resolveLogger(provider di.ServiceProvider) logging.Logger {
	if provider == nil {
		return logging.NopLogger{}
	}
	v, err := provider.GetService(di.TypeOf[logging.Logger]())
	if err != nil {
		return logging.NopLogger{}
	}
	logger, ok := v.(logging.Logger)
	if !ok {
		return logging.NopLogger{}
	}
	return logger
}
