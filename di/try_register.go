package di

import "reflect"

// 本文件提供条件注册（幂等）的便捷函数族。
// 所有函数构建对应的描述符后委托 ServiceCollection.TryAdd：
// 集合中第一条服务类型相同的描述符即阻止追加。
// 返回值表示是否发生了追加，"未追加" 是预期结果而非错误。

// TryAddTransient 条件注册瞬态自注册服务
func TryAddTransient[TService any](s *ServiceCollection) bool {
	return s.TryAdd(DescribeSelf[TService](Transient))
}

// TryAddTransientAs 条件注册瞬态类型服务
func TryAddTransientAs[TService, TImpl any](s *ServiceCollection) bool {
	return s.TryAdd(Describe[TService, TImpl](Transient))
}

// TryAddTransientFactory 条件注册瞬态工厂服务
func TryAddTransientFactory[TService any](s *ServiceCollection, factory func(ServiceProvider) TService) bool {
	return s.TryAdd(DescribeFactory(factory, Transient))
}

// TryAddScoped 条件注册作用域自注册服务
func TryAddScoped[TService any](s *ServiceCollection) bool {
	return s.TryAdd(DescribeSelf[TService](Scoped))
}

// TryAddScopedAs 条件注册作用域类型服务
func TryAddScopedAs[TService, TImpl any](s *ServiceCollection) bool {
	return s.TryAdd(Describe[TService, TImpl](Scoped))
}

// TryAddScopedFactory 条件注册作用域工厂服务
func TryAddScopedFactory[TService any](s *ServiceCollection, factory func(ServiceProvider) TService) bool {
	return s.TryAdd(DescribeFactory(factory, Scoped))
}

// TryAddSingleton 条件注册单例自注册服务
func TryAddSingleton[TService any](s *ServiceCollection) bool {
	return s.TryAdd(DescribeSelf[TService](Singleton))
}

// TryAddSingletonAs 条件注册单例类型服务
func TryAddSingletonAs[TService, TImpl any](s *ServiceCollection) bool {
	return s.TryAdd(Describe[TService, TImpl](Singleton))
}

// TryAddSingletonFactory 条件注册单例工厂服务
func TryAddSingletonFactory[TService any](s *ServiceCollection, factory func(ServiceProvider) TService) bool {
	return s.TryAdd(DescribeFactory(factory, Singleton))
}

// TryAddInstance 条件注册实例服务（隐含 Singleton）
func TryAddInstance[TService any](s *ServiceCollection, instance TService) bool {
	return s.TryAdd(DescribeInstance(instance))
}

// TryAddMultiRegistration 多重注册保护（泛型语法糖）
// 构建 (TService, TImpl) 类型描述符后委托集合的同名方法。
// 泛型路径下描述符必然携带实现类型，因此不返回 error。
func TryAddMultiRegistration[TService, TImpl any](s *ServiceCollection, lifetime Lifetime) bool {
	added, _ := s.TryAddMultiRegistration(Describe[TService, TImpl](lifetime))
	return added
}

// TryAddType 按 reflect.Type 条件注册类型服务
func TryAddType(s *ServiceCollection, serviceType, implementationType reflect.Type, lifetime Lifetime) (bool, error) {
	d, err := NewTypeDescriptor(serviceType, implementationType, lifetime)
	if err != nil {
		return false, err
	}
	return s.TryAdd(d), nil
}

// TryAddFactoryType 按 reflect.Type 条件注册工厂服务
func TryAddFactoryType(s *ServiceCollection, serviceType reflect.Type, factory Factory, lifetime Lifetime) (bool, error) {
	d, err := NewFactoryDescriptor(serviceType, factory, lifetime)
	if err != nil {
		return false, err
	}
	return s.TryAdd(d), nil
}
