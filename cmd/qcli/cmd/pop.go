package cmd

import (
	"fmt"

	"github.com/fyerfyer/syncq/queue"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// popCmd 表示pop命令，用于从队列头部取出元素
var popCmd = &cobra.Command{
	Use:   "pop [queue-name]",
	Short: "Pop items from a queue",
	Long: `Pop up to --count items from the head of a queue.
Simple and two-lock queues return immediately when empty. Timed and bounded
queues wait up to --timeout per item. A blocking queue waits only when
--timeout is 0, otherwise it behaves like a non-blocking pop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queueName := args[0]

		count, _ := cmd.Flags().GetInt("count")
		silent, _ := cmd.Flags().GetBool("silent")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		if count <= 0 {
			return errors.Errorf("count must be positive, got %d", count)
		}

		service := GetQueueService()
		out := cmd.OutOrStdout()

		popped := 0
		for popped < count {
			ctx, cancel := opContext(cmd.Context(), timeout)
			item, err := service.PopItem(ctx, queueName)
			cancel()
			if err != nil {
				// 已取出部分元素时，队列变空或超时只是提前结束
				if popped > 0 && (errors.Is(err, queue.ErrEmptyQueue) || errors.Is(err, queue.ErrTimeout)) {
					break
				}
				return err
			}
			popped++
			if !silent {
				fmt.Fprintln(out, item)
			}
		}

		if !silent && count > 1 {
			fmt.Fprintf(out, "Popped %d item(s) from queue '%s'.\n", popped, queueName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(popCmd)

	popCmd.Flags().IntP("count", "c", 1, "Maximum number of items to pop")
	popCmd.Flags().BoolP("silent", "s", false, "Do not print popped items")
	popCmd.Flags().DurationP("timeout", "t", defaultOpTimeout, "Per item timeout (0 waits forever)")
}
