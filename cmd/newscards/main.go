package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/eringen/newscards"
	"github.com/eringen/newscards/logutils"
)

// Build information. Populated at build-time via -ldflags flag.
var (
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

// Flags holds the global flags and the state the Before hook derives
// from them.
type Flags struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string

	// Config and Log are set in the Before hook and available to all commands.
	Config newscards.SiteConfig
	Log    zerolog.Logger
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	flags := &Flags{Log: zerolog.Nop()}

	app := &cli.Command{
		Name:      "newscards",
		Usage:     "Serve markdown posts as a page of news cards",
		UsageText: "newscards [global options] command [command options]",
		Description: `newscards reads posts/post.json (or a fallback list of markdown files),
renders every post and serves them as clickable cards that open in a modal.

Run 'newscards init mysite' to create a site, then 'newscards serve' inside it.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (skipped when the default is missing)",
				Sources:     cli.EnvVars("NEWSCARDS_CONFIG"),
				Value:       "config.yaml",
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (console, json)",
				Value:       "console",
				Destination: &flags.LogFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			newscards.LoadDotEnv(".")

			path := flags.ConfigPath
			if !c.IsSet("config") {
				if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
					path = ""
				}
			}
			cfg, err := newscards.LoadConfig(path)
			if err != nil {
				return ctx, errors.Wrap(err, "load config")
			}
			if c.IsSet("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = flags.LogLevel
			}
			if c.IsSet("log-format") || cfg.LogFormat == "" {
				cfg.LogFormat = flags.LogFormat
			}

			logger, err := logutils.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
			if err != nil {
				return ctx, errors.Wrap(err, "setup logger")
			}
			flags.Config = cfg
			flags.Log = logger
			return ctx, nil
		},
	}

	app = NewServeCmd(flags).Register(app)
	app = NewListCmd(flags).Register(app)
	app = NewShowCmd(flags).Register(app)
	app = NewInitCmd(flags).Register(app)
	app = NewVersionCmd().Register(app)

	return app
}
