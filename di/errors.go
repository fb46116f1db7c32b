package di

import "errors"

var (
	// ErrNilServiceType 注册时未提供服务类型
	ErrNilServiceType = errors.New("di: service type must not be nil")

	// ErrNilImplementationType 类型注册时未提供实现类型
	ErrNilImplementationType = errors.New("di: implementation type must not be nil")

	// ErrNilFactory 工厂注册时未提供工厂函数
	ErrNilFactory = errors.New("di: implementation factory must not be nil")

	// ErrNilInstance 实例注册时未提供实例
	ErrNilInstance = errors.New("di: implementation instance must not be nil")

	// ErrNilDescriptor 操作要求非空描述符
	ErrNilDescriptor = errors.New("di: descriptor must not be nil")

	// ErrMissingImplementationType 多重注册要求描述符携带实现类型
	// 区别于 ErrNilDescriptor：描述符本身非空，但由工厂或实例构建，
	// 不具备可比较的实现类型
	ErrMissingImplementationType = errors.New(
		"di: descriptor must have implementation type set to a non-nil value (parameter: descriptor)")

	// ErrReadOnly 集合冻结后禁止修改
	ErrReadOnly = errors.New("di: service collection is read-only")
)
