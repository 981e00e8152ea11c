package asynctime

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

var tw = timingwheel.NewTimingWheel(1*time.Millisecond, 3600)

func init() {
	tw.Start()
}

// Timer 可取消的定时器
type Timer interface {
	Stop() bool
}

// AfterFunc d 之后在时间轮协程里执行 f，f 不能阻塞
func AfterFunc(d time.Duration, f func()) Timer {
	return tw.AfterFunc(d, f)
}
