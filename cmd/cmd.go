// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// statusCommand reports proxy connectivity.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check YouTube Music proxy connectivity",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// playlistsCommand handles library playlist operations
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "YouTube Music playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List library playlists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "create",
				Usage: "Create a private playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "description",
						Usage: "Playlist description",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.PlaylistsDelete,
			},
			{
				Name:  "songs",
				Usage: "List the songs in a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of songs to return",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write the listing to a file (csv, markdown, or text)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export file path",
					},
				},
				Action: r.PlaylistsSongs,
			},
		},
	}
}

// songsCommand handles positioned song operations
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Insert, move, and remove playlist songs",
		Commands: []*cli.Command{
			{
				Name:  "insert",
				Usage: "Append a video and move it to a position",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist-id",
						Usage:    "Playlist to insert into",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "video-id",
						Usage:    "Video to insert",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "index",
						Usage: "Position the video should land at",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsInsert,
			},
			{
				Name:  "move",
				Usage: "Move a song up or down",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist-id",
						Usage:    "Playlist holding the song",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "set-video-id",
						Usage: "Position token of the song to move",
					},
					&cli.StringFlag{
						Name:  "video-id",
						Usage: "Video id of the song to move",
					},
					&cli.StringFlag{
						Name:     "direction",
						Usage:    "Direction to move: up or down",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "positions",
						Usage: "Number of positions to move",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsMove,
			},
			{
				Name:  "remove",
				Usage: "Remove songs from a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist-id",
						Usage:    "Playlist to remove from",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "set-video-id",
						Usage: "Position token of a song to remove (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "video-id",
						Usage: "Video id of a song to remove (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsRemove,
			},
		},
	}
}

// migrateCommand resolves and appends a batch of songs
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate songs into a playlist from a JSON file or stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "playlist-id",
				Usage:    "Destination playlist",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Songs JSON file (defaults to stdin)",
			},
			&cli.BoolFlag{
				Name:  "preserve-position",
				Usage: "Move each song toward its original index after appending",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Attach the per-song search trace to the result",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Skip the persistent match cache",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Migrate,
	}
}

// batchCommand runs one JSON action from stdin, for program callers
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "batch",
		Usage:  "Read a JSON action from stdin and write the JSON result to stdout",
		Action: r.Batch,
	}
}

// serveCommand exposes the batch actions over HTTP.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the batch actions over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and authentication.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:    "db",
				Aliases: []string{"database"},
				Usage:   "Initialize the match cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "browser",
				Usage: "Build a browser auth file from a captured cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command (defaults to stdin)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for browser.json",
					},
				},
				Action: r.SetupBrowser,
			},
			{
				Name:  "oauth",
				Usage: "Authorize via the YouTube TV device flow and write oauth.json",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "client-id",
						Usage:   "OAuth client id",
						Sources: cli.EnvVars("YTMUSIC_OAUTH_CLIENT_ID"),
					},
					&cli.StringFlag{
						Name:    "client-secret",
						Usage:   "OAuth client secret",
						Sources: cli.EnvVars("YTMUSIC_OAUTH_CLIENT_SECRET"),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for oauth.json",
					},
				},
				Action: r.SetupOAuth,
			},
		},
	}
}

// cacheCommand inspects the persistent match cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the match cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached matches",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by exact artist",
					},
					&cli.StringFlag{
						Name:  "video-id",
						Usage: "Filter by resolved video id",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Soft-delete every cached match",
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand handles direct (proxy) API calls, for debugging endpoints the
// typed commands do not cover.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the ytmusicapi proxy",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the proxy, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "delete",
				Usage: "Direct DELETE to the proxy",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.APIDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive reordering.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist reorder TUI",
		Action:  r.TUI,
	}
}

// configCommand prints the resolved configuration.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the resolved configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.ConfigShow,
	}
}
