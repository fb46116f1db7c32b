package di

import "reflect"

// ServiceProvider 服务提供者接口（类似于 .NET Core IServiceProvider）
// 提供者消费一个构建完成的 ServiceCollection 并返回对象图。
// 本包只声明该接口供工厂函数签名使用，解析算法由外部实现。
type ServiceProvider interface {
	// GetService 检索请求类型的实例
	GetService(serviceType reflect.Type) (any, error)
}

// Factory 工厂函数，从服务提供者创建服务实例
// 函数在解析阶段由提供者调用，注册阶段只存储引用。
type Factory func(ServiceProvider) any

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）
//
// 这是一个便捷函数，用于在泛型代码中获取类型信息。
//
// 示例：
//
//	serviceType := di.TypeOf[UserService]()
//	descriptor, _ := di.NewDescriptor(serviceType, di.Singleton)
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
