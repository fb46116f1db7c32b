package redis

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gocrud/injection/core"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/logging"
)

// Builder Redis 客户端配置构建器
type Builder struct {
	configs []ClientOptions
	errors  []error
}

// NewBuilder 创建 Redis 构建器
func NewBuilder() *Builder {
	return &Builder{}
}

// AddClient 添加一个 Redis 客户端配置
func (b *Builder) AddClient(name string, configure func(*ClientOptions)) *Builder {
	opts := NewDefaultOptions(name)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid redis configuration for '%s': %w", name, err))
		return b
	}

	b.configs = append(b.configs, *opts)
	return b
}

// Build 构建 Redis 客户端工厂
func (b *Builder) Build() (*ClientFactory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("redis configuration errors: %v", b.errors)
	}
	if len(b.configs) == 0 {
		return nil, nil
	}

	factory := NewClientFactory()
	for _, opts := range b.configs {
		if err := factory.Register(opts); err != nil {
			return nil, fmt.Errorf("failed to register redis client '%s': %w", opts.Name, err)
		}
	}
	return factory, nil
}

// AddRedis 将 Redis 客户端注册到服务集合
// 注册 *ClientFactory 单例与默认客户端（名称 "default"）的工厂描述符。
// 客户端在首次从提供者取出时才建立连接。
func AddRedis(services *di.ServiceCollection, configure func(*Builder)) *di.ServiceCollection {
	builder := NewBuilder()
	if configure != nil {
		configure(builder)
	}

	factory, err := builder.Build()
	if err != nil {
		panic(fmt.Sprintf("redis: %v", err))
	}
	if factory == nil {
		return services
	}

	di.TryAddInstance[*ClientFactory](services, factory)
	di.TryAddSingletonFactory[*goredis.Client](services, func(_ di.ServiceProvider) *goredis.Client {
		client, err := factory.Get("default")
		if err != nil {
			return nil
		}
		return client
	})

	return services
}

// Configure 返回 Redis 配置器
// 使用示例: builder.Configure(redis.Configure(func(b *redis.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		AddRedis(ctx.Services(), options)

		factory := firstFactory(ctx.Services())
		if factory == nil {
			return
		}
		ctx.SetFeature(factory)

		ctx.GetLogger().Info("Redis clients configured",
			logging.Field{Key: "clients", Value: len(factory.Names())})

		ctx.SetCleanup("redis", func() {
			ctx.GetLogger().Info("Closing redis clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close redis clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}

func firstFactory(services *di.ServiceCollection) *ClientFactory {
	d := services.First(di.TypeOf[*ClientFactory]())
	if d == nil {
		return nil
	}
	factory, _ := d.ImplementationInstance().(*ClientFactory)
	return factory
}
