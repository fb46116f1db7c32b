package di

// Lifetime 定义了服务实例的复用策略。
type Lifetime int

const (
	// Singleton 单例生命周期
	// 提供者在集合生命周期内只创建一次实例，所有请求返回同一个实例
	// 适用场景：无状态服务、配置、日志记录器等
	Singleton Lifetime = iota

	// Scoped 作用域生命周期
	// 同一个逻辑作用域内只创建一次实例，不同作用域之间相互独立
	// 适用场景：HTTP 请求级别的服务、数据库连接、工作单元等
	Scoped

	// Transient 瞬态生命周期
	// 每次请求都创建新实例，不缓存
	// 适用场景：命令对象、事件对象等需要独立状态的对象
	Transient
)

// String 返回生命周期的字符串表示
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "Singleton"
	case Scoped:
		return "Scoped"
	case Transient:
		return "Transient"
	default:
		return "Unknown"
	}
}
