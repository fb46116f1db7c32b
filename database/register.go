package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gocrud/injection/core"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/logging"
)

// Builder 数据库配置构建器
type Builder struct {
	configs []Options
	errors  []error
}

// NewBuilder 创建数据库构建器
func NewBuilder() *Builder {
	return &Builder{}
}

// Add 添加数据库配置
func (b *Builder) Add(name string, dialector gorm.Dialector, configure func(*Options)) *Builder {
	opts := NewDefaultOptions(name, dialector)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid database configuration for '%s': %w", name, err))
		return b
	}

	b.configs = append(b.configs, *opts)
	return b
}

// Build 构建数据库工厂
func (b *Builder) Build() (*Factory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("database configuration errors: %v", b.errors)
	}
	if len(b.configs) == 0 {
		return nil, nil
	}

	factory := NewFactory()
	for _, opts := range b.configs {
		if err := factory.Register(opts); err != nil {
			return nil, fmt.Errorf("failed to register database '%s': %w", opts.Name, err)
		}
	}
	return factory, nil
}

// AddDatabase 将数据库注册到服务集合
// 注册 *Factory 单例与默认连接（名称 "default"）的工厂描述符。
// 连接在首次从提供者取出时才打开。
func AddDatabase(services *di.ServiceCollection, configure func(*Builder)) *di.ServiceCollection {
	builder := NewBuilder()
	if configure != nil {
		configure(builder)
	}

	factory, err := builder.Build()
	if err != nil {
		panic(fmt.Sprintf("database: %v", err))
	}
	if factory == nil {
		return services
	}

	di.TryAddInstance[*Factory](services, factory)
	di.TryAddSingletonFactory[*gorm.DB](services, func(_ di.ServiceProvider) *gorm.DB {
		db, err := factory.Get("default")
		if err != nil {
			return nil
		}
		return db
	})

	return services
}

// Configure 返回数据库配置器
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		AddDatabase(ctx.Services(), options)

		d := ctx.Services().First(di.TypeOf[*Factory]())
		if d == nil {
			return
		}
		factory, ok := d.ImplementationInstance().(*Factory)
		if !ok {
			return
		}
		ctx.SetFeature(factory)

		ctx.GetLogger().Info("Databases configured",
			logging.Field{Key: "databases", Value: len(factory.Names())})

		ctx.SetCleanup("database", func() {
			ctx.GetLogger().Info("Closing database connections")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close databases",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
