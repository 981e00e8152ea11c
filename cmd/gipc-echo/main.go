// gipc-echo 示例：一端 serve，一端 dial 后发起调用、构造子 actor、析构
//
//	gipc-echo -config gipc.yaml -mode serve
//	gipc-echo -config gipc.yaml -mode dial -n 100
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dzm2020/gipc/internal/config"
	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/ipc"
	"github.com/dzm2020/gipc/pkg/metrics"
	"github.com/dzm2020/gipc/pkg/metrics/prom"
)

func main() {
	var (
		path  = flag.String("config", "", "yaml config file, defaults are used when empty")
		mode  = flag.String("mode", "serve", "serve or dial")
		n     = flag.Int("n", 10, "echo calls in dial mode")
		dump  = flag.Bool("dump", false, "print the effective config and exit")
		debug = flag.Bool("debug", false, "force debug logging regardless of config")
	)
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *dump {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(data)
		return
	}

	glog.Init(&cfg.Glog)
	defer glog.Stop()
	if *debug {
		glog.SetLogLevel(zapcore.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := startMetrics(ctx, cfg)

	var err error
	switch *mode {
	case "serve":
		err = serve(ctx, cfg, m)
	case "dial":
		err = dial(ctx, cfg, m, *n)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		glog.Error("gipc-echo failed", zap.String("mode", *mode), zap.Error(err))
		os.Exit(1)
	}
}

// startMetrics 未启用时返回空实现
func startMetrics(ctx context.Context, cfg *config.Config) metrics.ChannelMetrics {
	if !cfg.Metrics.Enabled {
		return metrics.NopChannelMetrics()
	}
	m := prom.NewChannelMetrics(prometheus.DefaultRegisterer)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
	go func() {
		glog.Info("metrics server starting", zap.String("addr", cfg.Metrics.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Error("metrics server", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return m
}

func channelOptions(cfg *config.Config, m metrics.ChannelMetrics, root ipc.IActor, name string) []ipc.Option {
	opts := cfg.ChannelOptions()
	return append(opts, ipc.WithName(name), ipc.WithRoot(root), ipc.WithMetrics(m))
}
