package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fyerfyer/syncq/queue"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// monitorCmd 表示monitor命令，用于实时监控队列状态
var monitorCmd = &cobra.Command{
	Use:   "monitor [queue-name]",
	Short: "Monitor queue activity in real-time",
	Long: `Watch queue statistics update in real-time.
Press Ctrl+C to stop monitoring, or pass --count to stop after N refreshes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queueName := args[0]

		interval, _ := cmd.Flags().GetDuration("interval")
		count, _ := cmd.Flags().GetInt("count")
		clearScreen, _ := cmd.Flags().GetBool("clear")
		if interval <= 0 {
			return errors.Errorf("interval must be positive, got %v", interval)
		}

		service := GetQueueService()
		prev, err := service.QueueStats(queueName)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Monitoring queue '%s' (refresh: %v, press Ctrl+C to stop)...\n\n",
			queueName, interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		prevTime := time.Now()
		for n := 0; count <= 0 || n < count; n++ {
			select {
			case <-ctx.Done():
				fmt.Fprintln(out, "\nMonitoring stopped.")
				return nil
			case now := <-ticker.C:
				stats, err := service.QueueStats(queueName)
				if err != nil {
					return errors.Wrap(err, "failed to get queue statistics")
				}
				if clearScreen {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				printSample(out, queueName, prev, stats, now.Sub(prevTime))
				prev, prevTime = stats, now
			}
		}
		return nil
	},
}

// printSample 输出一次采样结果，速率按两次采样之差计算
func printSample(out io.Writer, name string, prev, cur queue.Stats, elapsed time.Duration) {
	secs := elapsed.Seconds()
	if secs <= 0 {
		secs = 1
	}

	fmt.Fprintf(out, "Time: %s\n", time.Now().Format("15:04:05"))
	fmt.Fprintf(out, "Queue: %s\n", name)
	fmt.Fprintf(out, "Size: %d", cur.Size)
	if cur.Capacity > 0 {
		fmt.Fprintf(out, "/%d (%.1f%% full)", cur.Capacity, cur.Utilization()*100)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Operations: %d pushed, %d popped\n", cur.Pushed, cur.Popped)
	fmt.Fprintf(out, "Rate: %.2f push/s, %.2f pop/s\n",
		float64(cur.Pushed-prev.Pushed)/secs, float64(cur.Popped-prev.Popped)/secs)

	if cur.PushBlocks > 0 || cur.PopBlocks > 0 {
		fmt.Fprintf(out, "Blocks: %d push, %d pop\n", cur.PushBlocks, cur.PopBlocks)
	}
	if cur.PushTimeouts > 0 || cur.PopTimeouts > 0 {
		fmt.Fprintf(out, "Timeouts: %d push, %d pop\n", cur.PushTimeouts, cur.PopTimeouts)
	}
	if cur.Wakeups > 0 {
		fmt.Fprintf(out, "Wakeups: %d (%d spurious)\n", cur.Wakeups, cur.SpuriousWakeups)
	}
	fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationP("interval", "i", time.Second, "Refresh interval")
	monitorCmd.Flags().IntP("count", "n", 0, "Stop after this many refreshes (0 runs until interrupted)")
	monitorCmd.Flags().Bool("clear", true, "Clear the screen before each refresh")
}
