package cmd

import (
	"fmt"
	"io"

	"github.com/fyerfyer/syncq/internal/queueservice"
	"github.com/fyerfyer/syncq/internal/stress"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// benchCmd 表示bench命令，用多个生产者和消费者压测一个临时队列
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a producer/consumer benchmark",
	Long: `Create a temporary queue, push items from several producers while several
consumers pop them, then check that every item was popped exactly once.
Defaults come from the bench section of the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := appConfig.Bench
		flags := cmd.Flags()

		// 只有显式指定的参数覆盖配置文件
		if flags.Changed("kind") {
			b.Kind, _ = flags.GetString("kind")
		}
		if flags.Changed("capacity") {
			b.Capacity, _ = flags.GetInt("capacity")
		}
		if flags.Changed("wake") {
			b.Wake, _ = flags.GetString("wake")
		}
		if flags.Changed("producers") {
			b.Producers, _ = flags.GetInt("producers")
		}
		if flags.Changed("consumers") {
			b.Consumers, _ = flags.GetInt("consumers")
		}
		if flags.Changed("items") {
			b.Items, _ = flags.GetInt("items")
		}
		if flags.Changed("rate") {
			b.Rate, _ = flags.GetFloat64("rate")
		}
		if flags.Changed("pop-timeout") {
			b.PopTimeout, _ = flags.GetDuration("pop-timeout")
		}

		opts, err := queueOptions(b.Kind, b.Capacity, b.Wake)
		if err != nil {
			return err
		}

		service := GetQueueService()
		info, err := service.CreateQueue("bench-"+uuid.NewString()[:8], opts)
		if err != nil {
			return err
		}
		defer func() { _ = service.DeleteQueue(info.Name) }()

		h, err := service.GetQueue(info.Name)
		if err != nil {
			return err
		}

		report, err := stress.NewRunner(appLogger).Run(cmd.Context(), info.Kind, h, stress.Config{
			Producers:        b.Producers,
			Consumers:        b.Consumers,
			ItemsPerProducer: b.Items,
			Rate:             b.Rate,
			PopTimeout:       b.PopTimeout,
		})
		printReport(cmd.OutOrStdout(), info, report)
		if err != nil {
			return err
		}
		if !report.OK() {
			return errors.Errorf("benchmark on %s queue lost or duplicated items", info.Kind)
		}
		return nil
	},
}

func printReport(out io.Writer, info queueservice.QueueInfo, r stress.Report) {
	fmt.Fprintf(out, "Queue: %s (%s, wake %s, capacity %s)\n",
		info.Name, info.Kind, info.WakePolicy, formatCapacity(info.Stats.Capacity))
	fmt.Fprintf(out, "Items: %d pushed, %d popped\n", r.Pushed, r.Popped)
	fmt.Fprintf(out, "Elapsed: %v (%.0f items/s)\n", r.Elapsed, r.Throughput())
	fmt.Fprintf(out, "Missing: %d, duplicates: %d, unexpected: %d\n", r.Missing, r.Duplicates, r.Unexpected)
	fmt.Fprintf(out, "Blocks: %d push, %d pop\n", r.Stats.PushBlocks, r.Stats.PopBlocks)
	fmt.Fprintf(out, "Timeouts: %d push, %d pop\n", r.Stats.PushTimeouts, r.Stats.PopTimeouts)
	fmt.Fprintf(out, "Wakeups: %d (%d spurious)\n", r.Stats.Wakeups, r.Stats.SpuriousWakeups)
	if r.OK() {
		fmt.Fprintln(out, "Result: OK")
	} else {
		fmt.Fprintln(out, "Result: FAILED")
	}
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringP("kind", "k", "bounded", "Queue kind")
	benchCmd.Flags().IntP("capacity", "c", 64, "Queue capacity for bounded queues")
	benchCmd.Flags().StringP("wake", "w", "all", "Wake policy: 'all' or 'one'")
	benchCmd.Flags().IntP("producers", "p", 4, "Number of producers")
	benchCmd.Flags().Int("consumers", 4, "Number of consumers")
	benchCmd.Flags().IntP("items", "n", 10000, "Items per producer")
	benchCmd.Flags().Float64("rate", 0, "Max items per second per producer (0 for unlimited)")
	benchCmd.Flags().Duration("pop-timeout", 0, "Per attempt pop timeout for timed and bounded queues")
}
