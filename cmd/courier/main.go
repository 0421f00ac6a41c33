// Package main 提供 courier 演示程序的命令行入口
//
// 用法：
//
//	courier [参数] <collision|ropegame|boxes>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pparuzel/courier"
	"github.com/pparuzel/courier/pkg/lib/log"
)

var logger = log.Logger("courier/cmd")

// cliFlags 命令行参数
type cliFlags struct {
	fs *flag.FlagSet

	configFile  string
	logLevel    string
	logFormat   string
	diagnostics string
	metricsAddr string
	showVersion bool

	demo string
}

// parseFlags 解析命令行参数
func parseFlags(args []string, output io.Writer) (*cliFlags, error) {
	f := &cliFlags{fs: flag.NewFlagSet("courier", flag.ContinueOnError)}
	f.fs.SetOutput(output)
	f.fs.StringVar(&f.configFile, "config", "", "配置文件路径（JSON）")
	f.fs.StringVar(&f.logLevel, "log-level", "info", "日志级别 (debug/info/warn/error)")
	f.fs.StringVar(&f.logFormat, "log-format", "text", "日志格式 (text/json)")
	f.fs.StringVar(&f.diagnostics, "diagnostics", "stderr", "诊断输出 (stderr/stdout/discard)")
	f.fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Prometheus 指标监听地址，为空时不启动")
	f.fs.BoolVar(&f.showVersion, "version", false, "显示版本信息")
	f.fs.Usage = func() {
		fmt.Fprintf(output, "用法: courier [参数] <%s>\n\n参数:\n", demoNames())
		f.fs.PrintDefaults()
	}

	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	if f.showVersion {
		return f, nil
	}
	if f.fs.NArg() != 1 {
		f.fs.Usage()
		return nil, fmt.Errorf("需要恰好一个演示名称，可选: %s", demoNames())
	}
	f.demo = f.fs.Arg(0)
	return f, nil
}

// isSet 参数是否在命令行中显式设置
func (f *cliFlags) isSet(name string) bool {
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}
	if f.showVersion {
		fmt.Printf("%s %s - %s\n", courier.Name, courier.Version, courier.Description)
		return nil
	}

	cfg, err := buildConfig(f, os.Getenv)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	level, _ := log.ParseLevel(cfg.Log.Level)
	log.Setup(os.Stderr, level, log.Format(cfg.Log.Format))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("启动演示", "demo", f.demo, "version", courier.Version)
	err = runApp(ctx, cfg, f.demo, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		fmt.Println("Bye!")
		return nil
	}
	return err
}
