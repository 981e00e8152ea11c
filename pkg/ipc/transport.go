package ipc

// Transport 有序可靠的帧传输，pkg/transport 下有若干实现
// Send 可以被并发调用但通道内同一时刻只有一个写者；Recv 只在读协程里调用
type Transport interface {
	Send(frames ...[]byte) error
	Recv() ([]byte, error)
	Close() error
}
