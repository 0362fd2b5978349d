package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fyerfyer/syncq/internal/queueservice"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// pushCmd 表示push命令，用于向队列添加元素
var pushCmd = &cobra.Command{
	Use:   "push [queue-name]",
	Short: "Push items to a queue",
	Long: `Push one or more items to the tail of a queue.
Items can be given with --item, as a comma separated --items list, or read
line by line from --file. Timed and bounded queues wait up to --timeout
when the lock is contended or the queue is full.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queueName := args[0]

		item, _ := cmd.Flags().GetString("item")
		itemList, _ := cmd.Flags().GetString("items")
		file, _ := cmd.Flags().GetString("file")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		var items []string
		if item != "" {
			items = append(items, item)
		}
		items = append(items, queueservice.ParseItems(itemList)...)
		if file != "" {
			fromFile, err := readItems(file)
			if err != nil {
				return err
			}
			items = append(items, fromFile...)
		}
		if len(items) == 0 {
			return errors.New("no items given, use --item, --items or --file")
		}

		service := GetQueueService()
		out := cmd.OutOrStdout()
		for i, it := range items {
			ctx, cancel := opContext(cmd.Context(), timeout)
			err := service.PushItem(ctx, queueName, it)
			cancel()
			if err != nil {
				if i > 0 {
					fmt.Fprintf(out, "Pushed %d of %d item(s) before failing.\n", i, len(items))
				}
				return err
			}
		}

		fmt.Fprintf(out, "Pushed %d item(s) to queue '%s'.\n", len(items), queueName)
		return nil
	},
}

// readItems 从文件中逐行读取元素，忽略空行
func readItems(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open items file")
	}
	defer f.Close()

	var items []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			items = append(items, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read items file %s", path)
	}
	return items, nil
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().StringP("item", "i", "", "Single item to push")
	pushCmd.Flags().String("items", "", "Comma separated items to push")
	pushCmd.Flags().StringP("file", "f", "", "File with one item per line")
	pushCmd.Flags().DurationP("timeout", "t", defaultOpTimeout, "Per item timeout (0 waits forever)")
}
