package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// Batch runs a single JSON action read from stdin and writes the JSON
// result envelope to stdout. Logs go to stderr so stdout stays machine
// readable; a failure envelope maps to exit code 1.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	handler := r.batchHandler()
	if code := handler.Run(ctx, os.Stdin, r.output); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}
