package di

import "reflect"

// 本文件提供无条件注册的便捷函数族。
// 所有函数构建对应的描述符后委托 ServiceCollection.Add，
// 不做任何重复检查：重复调用产生重复条目，这是有意为之
// （支持多重绑定，以及由外部提供者的解析策略决定的覆盖注册）。
//
// 由于 Go 不支持泛型方法，函数以包级函数形式暴露，
// 集合作为第一个参数传入并原样返回以支持链式调用。

// AddTransient 注册瞬态自注册服务
//
// 示例:
//
//	di.AddTransient[*Worker](services)
func AddTransient[TService any](s *ServiceCollection) *ServiceCollection {
	return s.Add(DescribeSelf[TService](Transient))
}

// AddTransientAs 将实现类型 TImpl 注册为服务类型 TService（瞬态）
//
// 示例:
//
//	di.AddTransientAs[IWorker, Worker](services)
func AddTransientAs[TService, TImpl any](s *ServiceCollection) *ServiceCollection {
	return s.Add(Describe[TService, TImpl](Transient))
}

// AddTransientFactory 注册瞬态工厂服务
func AddTransientFactory[TService any](s *ServiceCollection, factory func(ServiceProvider) TService) *ServiceCollection {
	return s.Add(DescribeFactory(factory, Transient))
}

// AddScoped 注册作用域自注册服务
func AddScoped[TService any](s *ServiceCollection) *ServiceCollection {
	return s.Add(DescribeSelf[TService](Scoped))
}

// AddScopedAs 将实现类型 TImpl 注册为服务类型 TService（作用域）
func AddScopedAs[TService, TImpl any](s *ServiceCollection) *ServiceCollection {
	return s.Add(Describe[TService, TImpl](Scoped))
}

// AddScopedFactory 注册作用域工厂服务
func AddScopedFactory[TService any](s *ServiceCollection, factory func(ServiceProvider) TService) *ServiceCollection {
	return s.Add(DescribeFactory(factory, Scoped))
}

// AddSingleton 注册单例自注册服务
func AddSingleton[TService any](s *ServiceCollection) *ServiceCollection {
	return s.Add(DescribeSelf[TService](Singleton))
}

// AddSingletonAs 将实现类型 TImpl 注册为服务类型 TService（单例）
func AddSingletonAs[TService, TImpl any](s *ServiceCollection) *ServiceCollection {
	return s.Add(Describe[TService, TImpl](Singleton))
}

// AddSingletonFactory 注册单例工厂服务
func AddSingletonFactory[TService any](s *ServiceCollection, factory func(ServiceProvider) TService) *ServiceCollection {
	return s.Add(DescribeFactory(factory, Singleton))
}

// AddInstance 将预构建实例注册为单例服务
// 实例已经存在，生命周期隐含为 Singleton。
//
// 示例:
//
//	di.AddInstance[Configuration](services, cfg)
func AddInstance[TService any](s *ServiceCollection, instance TService) *ServiceCollection {
	return s.Add(DescribeInstance(instance))
}

// AddType 按 reflect.Type 注册类型服务
// 泛型不可用时（例如类型在运行时才确定）的注册入口。
func AddType(s *ServiceCollection, serviceType, implementationType reflect.Type, lifetime Lifetime) error {
	d, err := NewTypeDescriptor(serviceType, implementationType, lifetime)
	if err != nil {
		return err
	}
	s.Add(d)
	return nil
}

// AddFactoryType 按 reflect.Type 注册工厂服务
func AddFactoryType(s *ServiceCollection, serviceType reflect.Type, factory Factory, lifetime Lifetime) error {
	d, err := NewFactoryDescriptor(serviceType, factory, lifetime)
	if err != nil {
		return err
	}
	s.Add(d)
	return nil
}

// AddInstanceType 按 reflect.Type 注册实例服务
func AddInstanceType(s *ServiceCollection, serviceType reflect.Type, instance any) error {
	d, err := NewInstanceDescriptor(serviceType, instance)
	if err != nil {
		return err
	}
	s.Add(d)
	return nil
}
