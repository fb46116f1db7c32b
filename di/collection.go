package di

import (
	"fmt"
	"reflect"
)

// ServiceCollection 服务集合（类似于 .NET Core IServiceCollection）
// 按插入顺序维护服务描述符，是应用组合阶段的唯一可变结构。
//
// 集合默认不做唯一性约束：同一个服务类型允许存在多条描述符
// （多重绑定场景，例如一个接口的多个实现）。
//
// 集合设计为单线程引导模式：组合阶段构建完成后冻结，
// 交给外部的提供者构建步骤只读消费。不提供内部锁，
// 并发修改由调用方自行串行化。
type ServiceCollection struct {
	descriptors []*ServiceDescriptor
	readOnly    bool
}

// NewServiceCollection 创建空的服务集合
func NewServiceCollection() *ServiceCollection {
	return &ServiceCollection{
		descriptors: make([]*ServiceDescriptor, 0),
	}
}

// checkMutable 校验集合可写且描述符非空
// 所有修改操作先于任何变更执行此校验，保证操作的全有或全无。
func (s *ServiceCollection) checkMutable(d *ServiceDescriptor) {
	if s.readOnly {
		panic(ErrReadOnly)
	}
	if d == nil {
		panic(ErrNilDescriptor)
	}
}

// Add 无条件追加描述符，返回集合自身以支持链式调用
// 不做重复检查：重复调用产生重复条目，用于多重绑定和覆盖注册。
func (s *ServiceCollection) Add(d *ServiceDescriptor) *ServiceCollection {
	s.checkMutable(d)
	s.descriptors = append(s.descriptors, d)
	return s
}

// AddRange 按迭代顺序追加一组描述符，保持相对顺序
func (s *ServiceCollection) AddRange(ds ...*ServiceDescriptor) *ServiceCollection {
	for _, d := range ds {
		s.Add(d)
	}
	return s
}

// TryAdd 条件追加：仅当集合中不存在相同服务类型的描述符时追加
// 返回是否发生了追加。从头扫描，第一条同类型描述符即阻止追加，
// 无论其生命周期或实现方式如何。
func (s *ServiceCollection) TryAdd(d *ServiceDescriptor) bool {
	s.checkMutable(d)
	for _, existing := range s.descriptors {
		if existing.serviceType == d.serviceType {
			return false
		}
	}
	s.descriptors = append(s.descriptors, d)
	return true
}

// TryAddRange 对每个描述符依次应用 TryAdd 规则
// 每次检查针对集合的当前状态：序列中靠前的同类型描述符
// 会阻止同一次调用中靠后的描述符。
// 返回 true 当且仅当至少追加了一条。
func (s *ServiceCollection) TryAddRange(ds ...*ServiceDescriptor) bool {
	added := false
	for _, d := range ds {
		if s.TryAdd(d) {
			added = true
		}
	}
	return added
}

// TryAddMultiRegistration 多重注册保护
// 允许同一服务类型的多个不同实现共存，同时阻止完全相同的
// (服务类型, 实现类型) 对被重复注册。
//
// 描述符必须由实现类型构建；由工厂或实例构建的描述符
// 返回 ErrMissingImplementationType，集合不被修改。
// 集合中已存在的工厂/实例描述符没有实现类型可比较，
// 不构成冲突，也不参与校验。
//
// 返回 (true, nil) 表示已追加，(false, nil) 表示存在冲突条目未追加。
func (s *ServiceCollection) TryAddMultiRegistration(d *ServiceDescriptor) (bool, error) {
	s.checkMutable(d)
	if !d.HasImplementationType() {
		return false, ErrMissingImplementationType
	}
	for _, existing := range s.descriptors {
		if existing.serviceType == d.serviceType &&
			existing.HasImplementationType() &&
			existing.implType == d.implType {
			return false, nil
		}
	}
	s.descriptors = append(s.descriptors, d)
	return true, nil
}

// Replace 按服务类型替换
// 移除第一条服务类型相同的描述符，并将新描述符追加到集合末尾
// （不是插回原位置：被替换的注册移动到尾部）。
// 不存在同类型描述符时，行为等同于普通追加。
// 其他服务类型的描述符不受影响。
func (s *ServiceCollection) Replace(d *ServiceDescriptor) *ServiceCollection {
	s.checkMutable(d)
	for i, existing := range s.descriptors {
		if existing.serviceType == d.serviceType {
			s.descriptors = append(s.descriptors[:i], s.descriptors[i+1:]...)
			break
		}
	}
	s.descriptors = append(s.descriptors, d)
	return s
}

// RemoveAll 移除指定服务类型的全部描述符
func (s *ServiceCollection) RemoveAll(serviceType reflect.Type) *ServiceCollection {
	if s.readOnly {
		panic(ErrReadOnly)
	}
	if serviceType == nil {
		panic(ErrNilServiceType)
	}
	kept := s.descriptors[:0]
	for _, d := range s.descriptors {
		if d.serviceType != serviceType {
			kept = append(kept, d)
		}
	}
	s.descriptors = kept
	return s
}

// Remove 移除指定描述符（按引用比较），返回是否发生了移除
func (s *ServiceCollection) Remove(d *ServiceDescriptor) bool {
	s.checkMutable(d)
	for i, existing := range s.descriptors {
		if existing == d {
			s.descriptors = append(s.descriptors[:i], s.descriptors[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAt 移除指定位置的描述符
func (s *ServiceCollection) RemoveAt(index int) *ServiceCollection {
	if s.readOnly {
		panic(ErrReadOnly)
	}
	if index < 0 || index >= len(s.descriptors) {
		panic(fmt.Sprintf("di: index %d out of range [0, %d)", index, len(s.descriptors)))
	}
	s.descriptors = append(s.descriptors[:index], s.descriptors[index+1:]...)
	return s
}

// Count 返回集合中描述符的数量
func (s *ServiceCollection) Count() int {
	return len(s.descriptors)
}

// At 返回指定位置的描述符
func (s *ServiceCollection) At(index int) *ServiceDescriptor {
	return s.descriptors[index]
}

// IndexOf 返回描述符的位置（按引用比较），不存在时返回 -1
func (s *ServiceCollection) IndexOf(d *ServiceDescriptor) int {
	for i, existing := range s.descriptors {
		if existing == d {
			return i
		}
	}
	return -1
}

// First 返回指定服务类型的第一条描述符，不存在时返回 nil
func (s *ServiceCollection) First(serviceType reflect.Type) *ServiceDescriptor {
	for _, d := range s.descriptors {
		if d.serviceType == serviceType {
			return d
		}
	}
	return nil
}

// Descriptors 返回按插入顺序排列的描述符副本切片
// 返回副本以保证提供者消费期间集合内部状态不被外泄。
func (s *ServiceCollection) Descriptors() []*ServiceDescriptor {
	out := make([]*ServiceDescriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out
}

// Range 按插入顺序遍历描述符，fn 返回 false 时提前终止
func (s *ServiceCollection) Range(fn func(index int, d *ServiceDescriptor) bool) {
	for i, d := range s.descriptors {
		if !fn(i, d) {
			return
		}
	}
}

// MakeReadOnly 冻结集合
// 冻结后所有修改操作 panic（ErrReadOnly）。引导完成后调用，
// 再将集合交给提供者构建步骤。冻结不可逆。
func (s *ServiceCollection) MakeReadOnly() *ServiceCollection {
	s.readOnly = true
	return s
}

// IsReadOnly 报告集合是否已冻结
func (s *ServiceCollection) IsReadOnly() bool {
	return s.readOnly
}
