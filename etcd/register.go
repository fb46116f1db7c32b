package etcd

import (
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/gocrud/injection/core"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/logging"
)

// Builder etcd 客户端配置构建器
type Builder struct {
	configs map[string]ClientOptions
	order   []string
	errors  []error
}

// NewBuilder 创建 etcd 构建器
func NewBuilder() *Builder {
	return &Builder{
		configs: make(map[string]ClientOptions),
	}
}

// AddClient 添加一个 etcd 客户端配置
func (b *Builder) AddClient(name string, configure func(*ClientOptions)) *Builder {
	if _, exists := b.configs[name]; exists {
		b.errors = append(b.errors, fmt.Errorf("etcd client '%s' already configured", name))
		return b
	}

	opts := NewDefaultOptions(name)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid etcd configuration for '%s': %w", name, err))
		return b
	}

	b.configs[name] = *opts
	b.order = append(b.order, name)
	return b
}

// Build 构建 etcd 客户端工厂
func (b *Builder) Build() (*ClientFactory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("etcd configuration errors: %v", b.errors)
	}
	if len(b.configs) == 0 {
		return nil, nil
	}

	factory := NewClientFactory()
	for _, name := range b.order {
		if err := factory.Register(b.configs[name]); err != nil {
			return nil, fmt.Errorf("failed to register etcd client '%s': %w", name, err)
		}
	}
	return factory, nil
}

// AddEtcd 将 etcd 客户端注册到服务集合
// 注册 *ClientFactory 单例与默认客户端（名称 "default"）的工厂描述符。
func AddEtcd(services *di.ServiceCollection, configure func(*Builder)) *di.ServiceCollection {
	builder := NewBuilder()
	if configure != nil {
		configure(builder)
	}

	factory, err := builder.Build()
	if err != nil {
		panic(fmt.Sprintf("etcd: %v", err))
	}
	if factory == nil {
		return services
	}

	di.TryAddInstance[*ClientFactory](services, factory)
	di.TryAddSingletonFactory[*clientv3.Client](services, func(_ di.ServiceProvider) *clientv3.Client {
		client, err := factory.Get("default")
		if err != nil {
			return nil
		}
		return client
	})

	return services
}

// Configure 返回 etcd 配置器
// 使用示例: builder.Configure(etcd.Configure(func(b *etcd.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		AddEtcd(ctx.Services(), options)

		d := ctx.Services().First(di.TypeOf[*ClientFactory]())
		if d == nil {
			return
		}
		factory, ok := d.ImplementationInstance().(*ClientFactory)
		if !ok {
			return
		}
		ctx.SetFeature(factory)

		ctx.GetLogger().Info("etcd clients configured",
			logging.Field{Key: "clients", Value: len(factory.Names())})

		ctx.SetCleanup("etcd", func() {
			ctx.GetLogger().Info("Closing etcd clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close etcd clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
