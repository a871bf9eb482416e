package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// version is set at build time via ldflags.
var version = "dev"

func rootApp() *cli.App {
	return &cli.App{
		Name:    "syropia",
		Usage:   "Build and preview the Syropia blog",
		Version: version,
		Description: `Builds the Syropia blog from Markdown collections under the
content directory: one HTML page per published post and page, rss.xml,
sitemap.xml, plus everything in the static directory.

Flags can generally be set via environment variables, e.g.:

--config => SYROPIA_CONFIG=syropia.toml
--verbose => SYROPIA_VERBOSE=true`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "syropia.toml",
				Usage:   "TOML site config; a missing default file is ignored",
				EnvVars: []string{"SYROPIA_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Log every rendered entry",
				EnvVars: []string{"SYROPIA_VERBOSE"},
			},
		},
		Before: func(ctx *cli.Context) error {
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			if ctx.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			buildCmd(),
			serveCmd(),
			newCmd(),
			versionCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootApp().RunContext(ctx, os.Args); err != nil {
		log.WithError(err).Error("syropia failed")
		stop()
		os.Exit(1)
	}
}
