package hosting

import (
	"github.com/gocrud/injection/di"
)

// AddHostedService 将实现类型注册为 HostedService 的单例
// 同一实现类型只注册一次，不同实现类型可以共存，
// 因此多个托管服务可以挂在同一个服务接口下。
func AddHostedService[TImpl any](services *di.ServiceCollection) bool {
	return di.TryAddMultiRegistration[HostedService, TImpl](services, di.Singleton)
}

// AddHostedInstance 将已构建的服务实例追加为 HostedService 注册
// 实例注册没有实现类型，永远不会与已有注册冲突。
func AddHostedInstance(services *di.ServiceCollection, service HostedService) *di.ServiceCollection {
	di.AddInstance[HostedService](services, service)
	return services
}

// AddHostedFactory 通过工厂追加 HostedService 注册
func AddHostedFactory(services *di.ServiceCollection, factory func(di.ServiceProvider) HostedService) *di.ServiceCollection {
	di.AddSingletonFactory[HostedService](services, factory)
	return services
}

// CollectHostedServices 从服务集合中收集所有 HostedService 实例注册
// 只有实例与工厂注册可以在不构建提供者的情况下实例化，
// 类型注册需要由解析器构造，这里跳过。
func CollectHostedServices(services *di.ServiceCollection, provider di.ServiceProvider) []HostedService {
	hostedType := di.TypeOf[HostedService]()

	var collected []HostedService
	services.Range(func(_ int, d *di.ServiceDescriptor) bool {
		if d.ServiceType() != hostedType {
			return true
		}
		if instance := d.ImplementationInstance(); instance != nil {
			if svc, ok := instance.(HostedService); ok {
				collected = append(collected, svc)
			}
			return true
		}
		if factory := d.ImplementationFactory(); factory != nil {
			if svc, ok := factory(provider).(HostedService); ok {
				collected = append(collected, svc)
			}
		}
		return true
	})
	return collected
}
