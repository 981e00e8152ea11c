package workers

import (
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
)

var (
	goCount    atomic.Int64
	panicCount atomic.Uint64
	pool       *ants.Pool
	group      sync.WaitGroup
)

func init() {
	pool, _ = ants.NewPool(5000, ants.WithPanicHandler(func(r interface{}) {
		panicCount.Add(1)
		glog.Error("workers: task panic", zap.Any("recover", r), zap.Stack("stack"))
	}))
}

// Submit 短任务投递到协程池，池已关闭或满载时退化为新协程
func Submit(fn func(), recoverFun func(err interface{})) {
	task := func() {
		goCount.Add(1)
		defer goCount.Add(-1)
		Try(fn, recoverFun)
	}
	if err := pool.Submit(task); err != nil {
		go task()
	}
}

// Go 长期运行的协程，不占用协程池
func Go(fn func(), recoverFun func(err interface{})) {
	group.Add(1)
	goCount.Add(1)
	go func() {
		defer func() {
			goCount.Add(-1)
			group.Done()
		}()
		Try(fn, recoverFun)
	}()
}

func Try(fn func(), reFun func(err interface{})) {
	defer func() {
		if err := recover(); err != nil {
			panicCount.Add(1)
			if reFun != nil {
				reFun(err)
				return
			}
			glog.Error("workers: goroutine panic", zap.Any("recover", err), zap.Stack("stack"))
		}
	}()
	fn()
}

// Running 正在执行的协程数
func Running() int64 {
	return goCount.Load()
}

// Panics 累计捕获的 panic 数
func Panics() uint64 {
	return panicCount.Load()
}

// Wait 等待所有 Go 启动的协程退出
func Wait() {
	group.Wait()
}
