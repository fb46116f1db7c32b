package di

import (
	"fmt"
	"reflect"
)

// implKind 标记描述符携带的实现方式
// 三种方式互斥，构造函数保证每个描述符恰好激活一种。
type implKind int

const (
	implKindType implKind = iota
	implKindFactory
	implKindInstance
)

// ServiceDescriptor 服务描述符（类似于 .NET Core ServiceDescriptor）
// 描述一条服务注册：服务类型、实现方式和生命周期。
// 描述符是不可变值，构建后不提供任何修改入口。
//
// 实现方式三选一：
//   - 实现类型：由提供者反射构造
//   - 工厂函数：由提供者调用创建实例
//   - 预构建实例：直接使用，隐含 Singleton 生命周期
type ServiceDescriptor struct {
	serviceType reflect.Type
	lifetime    Lifetime

	kind     implKind
	implType reflect.Type
	factory  Factory
	instance any
}

// NewDescriptor 创建自注册描述符（实现类型默认为服务类型本身）
// 要求服务类型是可构造的具体类型。
func NewDescriptor(serviceType reflect.Type, lifetime Lifetime) (*ServiceDescriptor, error) {
	return NewTypeDescriptor(serviceType, serviceType, lifetime)
}

// NewTypeDescriptor 创建类型注册描述符
func NewTypeDescriptor(serviceType, implementationType reflect.Type, lifetime Lifetime) (*ServiceDescriptor, error) {
	if serviceType == nil {
		return nil, ErrNilServiceType
	}
	if implementationType == nil {
		return nil, ErrNilImplementationType
	}
	return &ServiceDescriptor{
		serviceType: serviceType,
		lifetime:    lifetime,
		kind:        implKindType,
		implType:    implementationType,
	}, nil
}

// NewFactoryDescriptor 创建工厂注册描述符
// 生命周期显式指定。工厂注册不存在 "Instance" 生命周期，
// 预构建实例请使用 NewInstanceDescriptor。
func NewFactoryDescriptor(serviceType reflect.Type, factory Factory, lifetime Lifetime) (*ServiceDescriptor, error) {
	if serviceType == nil {
		return nil, ErrNilServiceType
	}
	if factory == nil {
		return nil, ErrNilFactory
	}
	return &ServiceDescriptor{
		serviceType: serviceType,
		lifetime:    lifetime,
		kind:        implKindFactory,
		factory:     factory,
	}, nil
}

// NewInstanceDescriptor 创建实例注册描述符
// 实例已经构建完成，生命周期固定为 Singleton，不接受生命周期参数。
func NewInstanceDescriptor(serviceType reflect.Type, instance any) (*ServiceDescriptor, error) {
	if serviceType == nil {
		return nil, ErrNilServiceType
	}
	if instance == nil {
		return nil, ErrNilInstance
	}
	return &ServiceDescriptor{
		serviceType: serviceType,
		lifetime:    Singleton,
		kind:        implKindInstance,
		instance:    instance,
	}, nil
}

// Describe 创建类型注册描述符（泛型语法糖）
// TService 为服务类型，TImpl 为实现类型。
//
// 示例:
//
//	d := di.Describe[IUserService, UserService](di.Scoped)
func Describe[TService, TImpl any](lifetime Lifetime) *ServiceDescriptor {
	d, err := NewTypeDescriptor(TypeOf[TService](), TypeOf[TImpl](), lifetime)
	if err != nil {
		panic(fmt.Sprintf("di: failed to describe %v: %v", TypeOf[TService](), err))
	}
	return d
}

// DescribeSelf 创建自注册描述符（泛型语法糖）
func DescribeSelf[TService any](lifetime Lifetime) *ServiceDescriptor {
	return Describe[TService, TService](lifetime)
}

// DescribeFactory 创建工厂注册描述符（泛型语法糖）
// 类型化工厂被包装为 Factory，包装不改变调用语义。
func DescribeFactory[TService any](factory func(ServiceProvider) TService, lifetime Lifetime) *ServiceDescriptor {
	if factory == nil {
		panic(fmt.Sprintf("di: nil factory for %v", TypeOf[TService]()))
	}
	d, err := NewFactoryDescriptor(TypeOf[TService](), func(sp ServiceProvider) any {
		return factory(sp)
	}, lifetime)
	if err != nil {
		panic(fmt.Sprintf("di: failed to describe %v: %v", TypeOf[TService](), err))
	}
	return d
}

// DescribeInstance 创建实例注册描述符（泛型语法糖）
func DescribeInstance[TService any](instance TService) *ServiceDescriptor {
	d, err := NewInstanceDescriptor(TypeOf[TService](), instance)
	if err != nil {
		panic(fmt.Sprintf("di: failed to describe %v: %v", TypeOf[TService](), err))
	}
	return d
}

// ServiceType 返回注册的服务类型（契约类型）
func (d *ServiceDescriptor) ServiceType() reflect.Type {
	return d.serviceType
}

// Lifetime 返回服务的生命周期
func (d *ServiceDescriptor) Lifetime() Lifetime {
	return d.lifetime
}

// ImplementationType 返回实现类型
// 仅类型注册的描述符携带实现类型，其余返回 nil。
func (d *ServiceDescriptor) ImplementationType() reflect.Type {
	if d.kind != implKindType {
		return nil
	}
	return d.implType
}

// HasImplementationType 报告描述符是否由实现类型构建
func (d *ServiceDescriptor) HasImplementationType() bool {
	return d.kind == implKindType
}

// ImplementationFactory 返回工厂函数
// 仅工厂注册的描述符携带工厂，其余返回 nil。
func (d *ServiceDescriptor) ImplementationFactory() Factory {
	if d.kind != implKindFactory {
		return nil
	}
	return d.factory
}

// ImplementationInstance 返回预构建实例
// 仅实例注册的描述符携带实例，其余返回 nil。
func (d *ServiceDescriptor) ImplementationInstance() any {
	if d.kind != implKindInstance {
		return nil
	}
	return d.instance
}

// String 返回描述符的字符串表示，用于日志和调试
func (d *ServiceDescriptor) String() string {
	switch d.kind {
	case implKindFactory:
		return fmt.Sprintf("ServiceType: %v Lifetime: %v ImplementationFactory: %T",
			d.serviceType, d.lifetime, d.factory)
	case implKindInstance:
		return fmt.Sprintf("ServiceType: %v Lifetime: %v ImplementationInstance: %T",
			d.serviceType, d.lifetime, d.instance)
	default:
		return fmt.Sprintf("ServiceType: %v Lifetime: %v ImplementationType: %v",
			d.serviceType, d.lifetime, d.implType)
	}
}
