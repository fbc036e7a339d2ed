package main

import (
	"context"
	"fmt"
	"os"

	"phaseforge/internal/cli"
)

// main is a deterministic boundary: all flag handling and generation live
// behind cli.Run, which reports a semantic exit code.
func main() {
	result, err := cli.Run(context.Background(), os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(result.ExitCode)
}
