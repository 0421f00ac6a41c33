package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pparuzel/courier"
	"github.com/pparuzel/courier/config"
	"github.com/pparuzel/courier/internal/demo/boxes"
	"github.com/pparuzel/courier/internal/demo/collision"
	"github.com/pparuzel/courier/internal/demo/ropegame"
	"github.com/pparuzel/courier/pkg/lib/log"
	"github.com/pparuzel/courier/pkg/metrics"
)

// ============================================================================
//                              演示程序
// ============================================================================

// demoEnv 演示运行环境
type demoEnv struct {
	cfg  *config.Config
	in   io.Reader
	out  io.Writer
	opts []courier.Option
}

type demoFunc func(ctx context.Context, env demoEnv) error

var demos = map[string]demoFunc{
	"collision": func(_ context.Context, env demoEnv) error {
		return collision.Run(env.out, env.opts...)
	},
	"ropegame": func(ctx context.Context, env demoEnv) error {
		g, err := ropegame.New(ropegame.Config{
			In:        env.in,
			Out:       env.out,
			RopeCycle: env.cfg.Demo.RopeCycle.Duration(),
			AirTime:   env.cfg.Demo.AirTime.Duration(),
			Options:   env.opts,
		})
		if err != nil {
			return err
		}
		if err := g.Run(ctx); err != nil {
			return err
		}
		fmt.Fprintln(env.out, "Bye!")
		return nil
	},
	"boxes": func(_ context.Context, env demoEnv) error {
		boxes.Run(env.out)
		return nil
	},
}

// demoNames 返回可用的演示名称
func demoNames() string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// ============================================================================
//                              Fx 应用
// ============================================================================

// runApp 启动支撑服务（日志、指标）并运行演示
func runApp(ctx context.Context, cfg *config.Config, name string, in io.Reader, out io.Writer) error {
	demo, ok := demos[name]
	if !ok {
		return fmt.Errorf("未知演示 %q，可选: %s", name, demoNames())
	}

	var collector *metrics.Collector
	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newZapLogger,
			func() *metrics.Collector { return metrics.NewCollector(name) },
			newRegistry,
		),
		fx.Invoke(registerMetricsServer),
		fx.Populate(&collector),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			fl := &fxevent.ZapLogger{Logger: l.Named("fx")}
			fl.UseLogLevel(zapcore.DebugLevel)
			return fl
		}),
	)
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			logger.Warn("停止失败", "err", err)
		}
	}()

	diag, err := diagnosticsOption(cfg, out)
	if err != nil {
		return err
	}
	return demo(ctx, demoEnv{
		cfg:  cfg,
		in:   in,
		out:  out,
		opts: []courier.Option{courier.WithObserver(collector), diag},
	})
}

// diagnosticsOption 按配置选择诊断输出
func diagnosticsOption(cfg *config.Config, out io.Writer) (courier.Option, error) {
	switch cfg.Diagnostics.Output {
	case config.DiagnosticsStderr:
		return courier.WithDiagnostics(os.Stderr), nil
	case config.DiagnosticsStdout:
		return courier.WithDiagnostics(out), nil
	case config.DiagnosticsDiscard:
		return courier.WithoutDiagnostics(), nil
	default:
		return nil, fmt.Errorf("unknown diagnostics output %q", cfg.Diagnostics.Output)
	}
}

// newZapLogger 创建 fx 事件使用的 zap logger
func newZapLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	zcfg.Sampling = nil
	if cfg.Log.Format == string(log.FormatText) {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return zcfg.Build()
}

// zapLevel 将 slog 级别映射为 zap 级别
func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l <= slog.LevelDebug:
		return zapcore.DebugLevel
	case l <= slog.LevelInfo:
		return zapcore.InfoLevel
	case l <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// newRegistry 创建指标注册表
func newRegistry(c *metrics.Collector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return reg, nil
}

// registerMetricsServer 配置了监听地址时随应用启动指标服务
func registerMetricsServer(lc fx.Lifecycle, cfg *config.Config, reg *prometheus.Registry, l *zap.Logger) {
	if !cfg.Metrics.Enabled() {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              cfg.Metrics.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("metrics listen: %w", err)
			}
			l.Info("指标服务已启动", zap.String("addr", ln.Addr().String()), zap.String("path", cfg.Metrics.Path))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					l.Error("指标服务异常退出", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
