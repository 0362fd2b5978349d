package cmd

import (
	"fmt"

	"github.com/fyerfyer/syncq/internal/queueservice"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// statsCmd 表示stats命令，用于显示队列的统计信息
var statsCmd = &cobra.Command{
	Use:   "stats [queue-name]",
	Short: "Display queue statistics",
	Long: `Display detailed statistics for a specified queue.
This includes size, capacity, blocked and timed out operations, and wakeups.
With --items the JSON output also contains the queued items in FIFO order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queueName := args[0]
		output, _ := cmd.Flags().GetString("output")
		withItems, _ := cmd.Flags().GetBool("items")

		service := GetQueueService()
		info, err := service.Info(queueName)
		if err != nil {
			return errors.Wrap(err, "failed to get queue statistics")
		}

		out := cmd.OutOrStdout()
		switch output {
		case "table":
			fmt.Fprintf(out, "Statistics for queue '%s':\n\n", queueName)
			fmt.Fprint(out, queueservice.FormatQueueStats(info.Stats))
			if withItems {
				h, err := service.GetQueue(queueName)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Items: %s\n", queueservice.FormatItems(h.Items()))
			}
		case "json":
			var items []string
			if withItems {
				h, err := service.GetQueue(queueName)
				if err != nil {
					return err
				}
				items = h.Items()
			}
			b, err := queueservice.SerializeQueueData(queueservice.NewQueueData(info, items))
			if err != nil {
				return errors.Wrap(err, "failed to encode statistics")
			}
			fmt.Fprintln(out, string(b))
		default:
			return errors.Errorf("invalid output format %q, must be 'table' or 'json'", output)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("output", "o", "table", "Output format: 'table' or 'json'")
	statsCmd.Flags().Bool("items", false, "Include queued items")
}
