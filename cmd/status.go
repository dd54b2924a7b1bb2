package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// Status reports whether the ytmusicapi proxy is reachable. An unreachable
// proxy is a report, not a failure, so the command still exits zero.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	if r.catalog == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	err := r.catalog.Health(ctx)
	connected := err == nil

	if useJSON {
		return r.writeJSON(map[string]any{"ok": true, "connected": connected}, false)
	}

	if connected {
		r.writePlainln("✓ Connected to the ytmusicapi proxy")
		r.writePlain("  Proxy: %s\n", r.config.Proxy.URL)
		return nil
	}

	r.writePlainln("✗ Proxy is not reachable")
	r.writePlain("  Proxy: %s\n", r.config.Proxy.URL)
	r.writePlain("  Error: %v\n", err)
	return nil
}

// ConfigShow prints the resolved configuration after file and environment
// overlays.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(r.config, true)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(r.config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	r.writePlainHeader("Resolved configuration")
	r.writePlain("%s", buf.String())
	return nil
}
