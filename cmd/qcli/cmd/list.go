package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fyerfyer/syncq/internal/queueservice"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// listCmd 表示list命令，用于列出所有队列
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all queues",
	Long:  `Display a list of all available queues and their basic information.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queues := GetQueueService().ListQueues()

		verbose, _ := cmd.Flags().GetBool("verbose")
		output, _ := cmd.Flags().GetString("output")
		out := cmd.OutOrStdout()

		switch output {
		case "json":
			data := make([]queueservice.QueueData, 0, len(queues))
			for _, info := range queues {
				data = append(data, queueservice.NewQueueData(info, nil))
			}
			b, err := queueservice.SerializeQueueData(data...)
			if err != nil {
				return errors.Wrap(err, "failed to encode queues")
			}
			fmt.Fprintln(out, string(b))
			return nil
		case "table":
		default:
			return errors.Errorf("invalid output format %q, must be 'table' or 'json'", output)
		}

		if len(queues) == 0 {
			fmt.Fprintln(out, "No queues available.")
			return nil
		}

		if verbose {
			fmt.Fprintf(out, "Found %d queue(s):\n\n", len(queues))
			for i, info := range queues {
				if i > 0 {
					fmt.Fprintln(out, "---")
				}
				fmt.Fprint(out, queueservice.FormatQueueInfo(info))
			}
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tWAKE\tSIZE\tCAPACITY\tOPERATIONS")
		for _, info := range queues {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d push, %d pop\n",
				info.Name,
				info.Kind,
				info.WakePolicy,
				info.Stats.Size,
				formatCapacity(info.Stats.Capacity),
				info.Stats.Pushed,
				info.Stats.Popped)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("verbose", "v", false, "Show detailed information for each queue")
	listCmd.Flags().StringP("output", "o", "table", "Output format: 'table' or 'json'")
}
