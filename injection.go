// Package injection 提供一个 .NET Core 风格的服务注册与应用组合框架。
//
// 注册 API 位于 di 子包：ServiceDescriptor 描述一条注册，
// ServiceCollection 以有序列表收集注册。ApplicationBuilder（core 子包）
// 汇总配置、日志与服务注册，Build 后得到冻结的组合结果。
package injection

import (
	"github.com/gocrud/injection/core"
	"github.com/gocrud/injection/di"
)

// NewApplicationBuilder 创建应用程序构建器
// 这是组合一个完整应用的入口点
func NewApplicationBuilder() *core.ApplicationBuilder {
	return core.NewApplicationBuilder()
}

// NewServiceCollection 创建空的服务集合
// 只需要注册表而不需要完整应用时使用
func NewServiceCollection() *di.ServiceCollection {
	return di.NewServiceCollection()
}
