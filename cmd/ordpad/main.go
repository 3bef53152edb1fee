// Command ordpad keeps a product catalog and a running order.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ordpad/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ordpad:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
