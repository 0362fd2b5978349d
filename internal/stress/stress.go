// Package stress 以多个生产者和消费者压测队列，并校验出队元素既不丢失也不重复
package stress

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/fyerfyer/syncq/internal/queueservice"
	"github.com/fyerfyer/syncq/queue"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Config 是一次压测的参数
type Config struct {
	Producers        int
	Consumers        int
	ItemsPerProducer int

	// Rate 是每个生产者每秒入队的上限，0 表示不限速
	Rate float64

	// PopTimeout 是 timed 和 bounded 类型每次出队的等待上限，超时后重试
	PopTimeout time.Duration
}

// Validate 检查参数是否合法
func (c Config) Validate() error {
	switch {
	case c.Producers <= 0:
		return errors.Errorf("producers must be positive, got %d", c.Producers)
	case c.Consumers <= 0:
		return errors.Errorf("consumers must be positive, got %d", c.Consumers)
	case c.ItemsPerProducer <= 0:
		return errors.Errorf("items per producer must be positive, got %d", c.ItemsPerProducer)
	case c.Rate < 0:
		return errors.Errorf("rate must not be negative, got %v", c.Rate)
	}
	return nil
}

// Report 是压测结果
type Report struct {
	Kind       queueservice.Kind
	Pushed     int
	Popped     int
	Missing    int
	Duplicates int
	Unexpected int
	Elapsed    time.Duration
	Stats      queue.Stats
}

// OK 返回出队的多重集合是否与入队的完全一致
func (r Report) OK() bool {
	return r.Pushed == r.Popped && r.Missing == 0 && r.Duplicates == 0 && r.Unexpected == 0
}

// Throughput 返回每秒出队的元素数
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Popped) / r.Elapsed.Seconds()
}

// Runner 执行压测
type Runner struct {
	logger *zap.Logger
}

// NewRunner 创建压测执行器，logger 为 nil 时不输出日志
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// stopItem 用于唤醒阻塞在 blocking 队列上的消费者，正常元素从不为空
const stopItem = ""

func itemName(producer, seq int) string {
	return fmt.Sprintf("p%d-%d", producer, seq)
}

// Run 对空队列 h 执行一次压测
// 所有元素都被消费后返回报告；生产或消费出错时返回错误和已收集到的部分报告
func (r *Runner) Run(ctx context.Context, kind queueservice.Kind, h queueservice.Handle, cfg Config) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	total := cfg.Producers * cfg.ItemsPerProducer
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.logger.Info("stress run started",
		zap.String("kind", string(kind)),
		zap.Int("producers", cfg.Producers),
		zap.Int("consumers", cfg.Consumers),
		zap.Int("items", total),
		zap.Float64("rate", cfg.Rate))

	var (
		pushed  atomic.Int64
		claimed atomic.Int64
		popped  = make([][]string, cfg.Consumers)
	)
	start := time.Now()

	consumers, cctx := errgroup.WithContext(runCtx)
	for c := 0; c < cfg.Consumers; c++ {
		c := c
		consumers.Go(func() error {
			for claimed.Add(1) <= int64(total) {
				item, err := r.pop(cctx, kind, h, cfg.PopTimeout)
				if err != nil {
					// 生产者挂起在有界队列上时需要一起取消
					cancel()
					return errors.Wrapf(err, "consumer %d", c)
				}
				if item == stopItem {
					return nil
				}
				popped[c] = append(popped[c], item)
			}
			return nil
		})
	}

	producers, pctx := errgroup.WithContext(runCtx)
	for p := 0; p < cfg.Producers; p++ {
		p := p
		var limiter *rate.Limiter
		if cfg.Rate > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
		}
		producers.Go(func() error {
			for j := 0; j < cfg.ItemsPerProducer; j++ {
				if limiter != nil {
					if err := limiter.Wait(pctx); err != nil {
						return errors.Wrapf(err, "producer %d", p)
					}
				}
				if err := h.Push(pctx, itemName(p, j)); err != nil {
					return errors.Wrapf(err, "producer %d", p)
				}
				pushed.Add(1)
			}
			return nil
		})
	}

	perr := producers.Wait()
	if perr != nil {
		cancel()
		// blocking 类型的出队无法放弃，只能靠入队唤醒
		if kind == queueservice.KindBlocking {
			for c := 0; c < cfg.Consumers; c++ {
				_ = h.Push(context.Background(), stopItem)
			}
		}
	}
	cerr := consumers.Wait()

	report := r.report(kind, h, cfg, int(pushed.Load()), popped)
	report.Elapsed = time.Since(start)

	if perr != nil {
		return report, perr
	}
	if cerr != nil {
		return report, cerr
	}

	r.logger.Info("stress run finished",
		zap.String("kind", string(kind)),
		zap.Duration("elapsed", report.Elapsed),
		zap.Float64("throughput", report.Throughput()),
		zap.Bool("ok", report.OK()),
		zap.Uint64("wakeups", report.Stats.Wakeups),
		zap.Uint64("spuriousWakeups", report.Stats.SpuriousWakeups))
	return report, nil
}

// pop 按队列类型出队直到成功
func (r *Runner) pop(ctx context.Context, kind queueservice.Kind, h queueservice.Handle, timeout time.Duration) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var (
			item string
			err  error
		)
		switch {
		case kind == queueservice.KindBlocking:
			// Background 永不结束，出队挂起直到有元素
			item, err = h.Pop(context.Background())
		case kind.Blocking() && timeout > 0:
			popCtx, popCancel := context.WithTimeout(ctx, timeout)
			item, err = h.Pop(popCtx)
			popCancel()
		default:
			item, err = h.Pop(ctx)
		}

		switch {
		case err == nil:
			return item, nil
		case errors.Is(err, queue.ErrEmptyQueue):
			// simple 和 twolock 没有可等待的条件，只能让出后重试
			runtime.Gosched()
		case errors.Is(err, queue.ErrTimeout):
			r.logger.Debug("pop timed out, retrying", zap.String("kind", string(kind)))
		default:
			return "", err
		}
	}
}

func (r *Runner) report(kind queueservice.Kind, h queueservice.Handle, cfg Config, pushed int, popped [][]string) Report {
	report := Report{Kind: kind, Pushed: pushed, Stats: h.Stats()}

	seen := make(map[string]int, pushed)
	for _, items := range popped {
		report.Popped += len(items)
		for _, item := range items {
			seen[item]++
		}
	}

	for p := 0; p < cfg.Producers; p++ {
		for j := 0; j < cfg.ItemsPerProducer; j++ {
			name := itemName(p, j)
			n, ok := seen[name]
			switch {
			case !ok:
				report.Missing++
			case n > 1:
				report.Duplicates += n - 1
			}
			delete(seen, name)
		}
	}
	for _, n := range seen {
		report.Unexpected += n
	}
	return report
}
