package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fyerfyer/syncq/internal/config"
	"github.com/fyerfyer/syncq/internal/logger"
	"github.com/fyerfyer/syncq/internal/queueservice"
	"github.com/fyerfyer/syncq/queue"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// 队列服务实例，所有命令共享
	queueSvc queueservice.Service

	appConfig *config.Config
	appLogger = zap.NewNop()

	// 全局参数
	cfgFile  string
	logLevel string
	logFile  string
)

// rootCmd 表示CLI工具的根命令
var rootCmd = &cobra.Command{
	Use:   "qcli",
	Short: "A CLI tool for managing in-memory queues",
	Long: `Queue CLI (qcli) creates and exercises thread-safe in-memory queues.
It supports simple, two-lock, blocking, timed and bounded queues, lets you push and
pop items, monitor queue statistics and run producer/consumer benchmarks.

Queues live in memory, so running qcli without a subcommand starts an interactive session.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return setup() },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveMode(cmd)
	},
}

// Execute 运行根命令，返回进程退出码
func Execute() int {
	err := rootCmd.ExecuteContext(context.Background())
	teardown()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file, rotated by size")
}

// setup 读取配置、创建日志记录器和队列服务，并创建配置中声明的队列
// 交互模式下每条命令都会经过这里，只有第一次生效
func setup() error {
	if queueSvc != nil {
		return nil
	}

	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}

	svc := queueservice.NewInMemoryService(queueservice.WithLogger(log))
	for _, q := range cfg.Queues {
		opts, err := queueOptions(q.Kind, q.Capacity, q.Wake)
		if err != nil {
			return errors.Wrapf(err, "queue %q", q.Name)
		}
		if _, err := svc.CreateQueue(q.Name, opts); err != nil {
			return err
		}
	}

	appConfig, appLogger, queueSvc = cfg, log, svc
	return nil
}

func teardown() {
	if queueSvc != nil {
		_ = queueSvc.Close()
		queueSvc = nil
	}
	_ = appLogger.Sync()
}

// GetQueueService 返回队列服务实例，供子命令使用
func GetQueueService() queueservice.Service {
	return queueSvc
}

// queueOptions 将命令行或配置中的字符串参数转换为队列选项
func queueOptions(kind string, capacity int, wake string) (queueservice.QueueOptions, error) {
	k, err := queueservice.ParseKind(kind)
	if err != nil {
		return queueservice.QueueOptions{}, err
	}
	policy, ok := queue.ParseWakePolicy(wake)
	if !ok {
		return queueservice.QueueOptions{}, errors.Errorf("invalid wake policy %q, must be 'all' or 'one'", wake)
	}
	return queueservice.QueueOptions{Kind: k, Capacity: capacity, WakePolicy: policy}, nil
}

// defaultOpTimeout 是 push 和 pop 单个元素的默认等待上限
const defaultOpTimeout = time.Second

// opContext 返回单个操作使用的上下文
// timeout 为0时上下文永不结束，blocking 队列的出队会一直等待
func opContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithoutCancel(parent), func() {}
}
