package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// deleteCmd 表示delete命令，用于删除队列
var deleteCmd = &cobra.Command{
	Use:     "delete [queue-name]",
	Aliases: []string{"rm"},
	Short:   "Delete a queue",
	Long:    `Delete a queue and discard any items still in it.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetQueueService().DeleteQueue(args[0]); err != nil {
			return errors.Wrap(err, "failed to delete queue")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queue '%s' deleted.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
