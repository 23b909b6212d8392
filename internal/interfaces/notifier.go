package interfaces

// 变更的实体类型
const (
	KindGame     = "juego"
	KindPlayer   = "jugador"
	KindCategory = "categoria"
)

// ChangeNotifier 实体变更成功后的通知出口（报表投影等）。
// 实现方不得阻塞调用方，也不得把自身失败传回变更路径
type ChangeNotifier interface {
	NotifyChange(kind string, id uint64)
}

// NoopNotifier 不做任何事
type NoopNotifier struct{}

func (NoopNotifier) NotifyChange(string, uint64) {}
