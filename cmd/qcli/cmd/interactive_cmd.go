package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// interactiveCmd 表示交互式命令，用于启动一个REPL
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive session",
	Long: `Start an interactive session with the queue CLI.
Commands can be entered directly at the prompt and share the same queues.
Type 'exit' or 'quit' to exit, or press Ctrl+C.`,
	Aliases: []string{"i", "shell"},
	Args:    cobra.NoArgs,
}

func init() {
	// RunE 在 init 中赋值，避免 interactiveCmd 与 executeCommand 之间的初始化循环
	interactiveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runInteractiveMode(cmd)
	}
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractiveMode(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Queue CLI Interactive Mode")
	fmt.Fprintln(out, "Type 'help' for available commands or 'exit' to quit")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 读取输入放在单独的 goroutine 中，等待输入时也能响应 Ctrl+C
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, "> ")

		waitCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		var (
			input string
			ok    bool
		)
		select {
		case <-waitCtx.Done():
			stop()
			fmt.Fprintln(out, "\nReceived interrupt signal, exiting...")
			return nil
		case input, ok = <-lines:
			stop()
		}

		if !ok {
			if err := <-readErr; err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error reading input: %v\n", err)
			}
			fmt.Fprintln(out)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Fprintln(out, "Exiting...")
			return nil
		}

		executeCommand(ctx, cmd.Root(), input, out, cmd.ErrOrStderr())
	}
}

// executeCommand 解析并执行一行输入，错误只打印不退出
func executeCommand(ctx context.Context, root *cobra.Command, input string, out, errOut io.Writer) {
	args, err := shellwords.NewParser().Parse(input)
	if err != nil {
		fmt.Fprintf(errOut, "Error parsing command: %v\n", err)
		return
	}
	if len(args) == 0 {
		return
	}

	target, _, err := root.Find(args)
	if err == nil && (target == interactiveCmd || target == root && !wantsHelp(args)) {
		fmt.Fprintln(errOut, "Error: already in interactive mode")
		return
	}

	cmdCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 子命令只在上下文为空时继承根命令的上下文，需要显式替换上一次的
	if target != nil {
		target.SetContext(cmdCtx)
	}
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(cmdCtx); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}

	// cobra 不会重置上一次解析的参数值
	if target != nil {
		resetFlags(target)
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
}
