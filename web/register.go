package web

import (
	"github.com/gin-gonic/gin"

	"github.com/gocrud/injection/core"
	"github.com/gocrud/injection/di"
	"github.com/gocrud/injection/hosting"
	"github.com/gocrud/injection/logging"
)

// AddWeb 将 Web 主机注册到服务集合
// 注册 *gin.Engine 和 *Host 的单例实例，并把主机追加为托管服务。
func AddWeb(services *di.ServiceCollection, logger logging.Logger, configure func(*Builder)) *Host {
	builder := NewBuilder(logger)
	if configure != nil {
		configure(builder)
	}

	host := builder.Build()

	di.TryAddInstance[*gin.Engine](services, host.Engine())
	di.TryAddInstance[*Host](services, host)
	hosting.AddHostedInstance(services, host)

	return host
}

// Configure 返回 Web 配置器
// 使用示例: builder.Configure(web.Configure(func(b *web.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		host := AddWeb(ctx.Services(), ctx.GetLogger(), options)
		ctx.SetFeature(host)

		ctx.GetLogger().Info("Web host configured",
			logging.Field{Key: "port", Value: host.Port()})
	}
}
