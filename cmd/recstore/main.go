// Command recstore stores schemaless records in SQLite tables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/recstore/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel in-flight statements on SIGINT and SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return cli.ExitSuccess
	}

	if !cli.IsReported(err) {
		fmt.Fprintf(os.Stderr, "recstore: %v\n", err)
	}
	return cli.GetExitCode(err)
}
