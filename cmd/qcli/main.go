package main

import (
	"os"

	"github.com/fyerfyer/syncq/cmd/qcli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
