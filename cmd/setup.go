package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the config file and the match cache database.
// The --config path may point away from the runner's own config, so the
// command loads and opens its own handles instead of reusing r.db.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			r.logger.Warn("failed to load config, using current settings", "path", configPath, "error", err)
		} else {
			config = loaded
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using current settings", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if loaded, err := shared.LoadConfig(configPath); err == nil {
				config = loaded
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupBrowser converts a copied browser request into browser.json
// credentials for the proxy. The curl command comes from --curl-file or is
// pasted on stdin.
func (r *Runner) SetupBrowser(ctx context.Context, cmd *cli.Command) error {
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	var headers *shared.CurlHeaders
	var err error

	if curlFile != "" {
		if headers, err = shared.ParseCurlFile(curlFile); err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		r.writePlainln("Paste the copied cURL command, then press Ctrl+D:")
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return fmt.Errorf("failed to read cURL command from stdin: %w", readErr)
		}
		if headers, err = shared.ParseCurlCommand(data); err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	payload, err := headers.ToBrowserJSON()
	if err != nil {
		return err
	}

	if outputPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		outputPath = filepath.Join(homeDir, ".ytshift", "browser.json")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, payload, 0600); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	r.logger.Info("browser.json saved", "path", outputPath)

	r.writePlain("✓ YouTube Music authentication configured successfully\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Update config.toml with: proxy.auth_file = \"%s\"\n", outputPath)
	r.writePlain("2. Run 'ytshift status' to verify the proxy connection\n")

	return nil
}

// SetupOAuth walks the OAuth device flow and writes oauth.json credentials
// for the proxy.
func (r *Runner) SetupOAuth(ctx context.Context, cmd *cli.Command) error {
	clientID := cmd.String("client-id")
	clientSecret := cmd.String("client-secret")
	outputPath := cmd.String("output")

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("%w: --client-id and --client-secret are required", shared.ErrMissingArgument)
	}

	setup := services.NewOAuthSetup(clientID, clientSecret)

	auth, err := setup.Begin(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Visit: %s\n", auth.VerificationURI)
	r.writePlain("Enter code: %s\n", auth.UserCode)
	if auth.VerificationURIComplete != "" {
		r.writePlain("Or open: %s\n", auth.VerificationURIComplete)
	}

	if err := shared.OpenBrowser(auth.VerificationURI); err != nil {
		r.logger.Debug("could not open browser", "error", err)
	}

	r.writePlainln("Waiting for authorization...")

	token, err := setup.Wait(ctx, auth)
	if err != nil {
		return err
	}

	payload, err := setup.Credentials(token)
	if err != nil {
		return err
	}

	if outputPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		outputPath = filepath.Join(homeDir, ".ytshift", "oauth.json")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, payload, 0600); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	r.logger.Info("oauth.json saved", "path", outputPath)

	r.writePlain("✓ YouTube Music authorization complete\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Update config.toml with: proxy.auth_file = \"%s\"\n", outputPath)
	r.writePlain("2. Run 'ytshift status' to verify the proxy connection\n")

	return nil
}
