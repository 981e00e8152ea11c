package transport

import (
	"io"

	"github.com/dzm2020/gipc/pkg/lib/stopper"
)

// PipeEnd 进程内管道的一端，无界缓冲
type PipeEnd struct {
	stopper.Stopper
	in  *Inbox
	out *Inbox
}

// Pipe 一对互连的端点，同一进程内的两个线程之间使用
func Pipe() (*PipeEnd, *PipeEnd) {
	a, b := NewInbox(), NewInbox()
	return &PipeEnd{in: a, out: b}, &PipeEnd{in: b, out: a}
}

func (p *PipeEnd) Send(frames ...[]byte) error {
	if p.IsStop() {
		return ErrClosed
	}
	if !p.out.Push(frames...) {
		return io.ErrClosedPipe
	}
	return nil
}

func (p *PipeEnd) Recv() ([]byte, error) {
	return p.in.Recv()
}

// Close 对端读完剩余的帧后得到 io.EOF
func (p *PipeEnd) Close() error {
	if !p.Stop() {
		return nil
	}
	p.out.Fail(io.EOF)
	p.in.Fail(ErrClosed)
	return nil
}
