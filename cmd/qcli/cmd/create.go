package cmd

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// createCmd 表示create命令，用于创建新队列
var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new queue",
	Long: `Create a new queue with specified options.
Kinds: simple, twolock (never wait), blocking (pop waits forever),
timed (waits up to a deadline) and bounded (fixed capacity, push waits when full).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		kind, _ := cmd.Flags().GetString("kind")
		capacity, _ := cmd.Flags().GetInt("capacity")
		wake, _ := cmd.Flags().GetString("wake")
		initialSize, _ := cmd.Flags().GetInt("initial-size")

		opts, err := queueOptions(kind, capacity, wake)
		if err != nil {
			return err
		}
		opts.InitialSize = initialSize

		info, err := GetQueueService().CreateQueue(name, opts)
		if err != nil {
			return errors.Wrap(err, "failed to create queue")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Queue '%s' created successfully.\n", info.Name)
		fmt.Fprintf(out, "Kind: %s\n", info.Kind)
		fmt.Fprintf(out, "Capacity: %s\n", formatCapacity(info.Stats.Capacity))
		if info.Kind.Blocking() {
			fmt.Fprintf(out, "Wake policy: %s\n", info.WakePolicy)
		}
		return nil
	},
}

// formatCapacity 格式化容量显示
func formatCapacity(capacity int) string {
	if capacity <= 0 {
		return "unbounded"
	}
	return strconv.Itoa(capacity)
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringP("kind", "k", "blocking", "Queue kind: simple, twolock, blocking, timed or bounded")
	createCmd.Flags().IntP("capacity", "c", 0, "Queue capacity, required for bounded queues")
	createCmd.Flags().StringP("wake", "w", "all", "Wake policy for waiting callers: 'all' or 'one'")
	createCmd.Flags().Int("initial-size", 0, "Initial buffer size (0 for default)")
}
