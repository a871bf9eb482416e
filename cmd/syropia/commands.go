package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/syropia/syropia"
	"github.com/syropia/syropia/views"
)

// loadConfig reads --config. The default file is optional so a bare
// checkout builds with the stock settings.
func loadConfig(ctx *cli.Context) (syropia.SiteConfig, error) {
	path := ctx.String("config")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !ctx.IsSet("config") {
		path = ""
	}
	return syropia.LoadConfig(path)
}

func newApp(ctx *cli.Context, opts ...syropia.Option) (*syropia.App, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if dir := ctx.String("content"); dir != "" {
		cfg.ContentDir = dir
	}
	opts = append(opts, syropia.WithLogger(log.StandardLogger()))
	return syropia.New(cfg, views.Default(cfg), opts...), nil
}

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Render the site into the output directory",
		Description: `Renders every published post and page, rss.xml and sitemap.xml
into the output directory. The previous output is only replaced when the
whole build succeeds.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "content",
				Usage: "Content directory (overrides content_dir)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory (overrides out_dir)",
			},
		},
		Action: func(ctx *cli.Context) error {
			var opts []syropia.Option
			if out := ctx.String("out"); out != "" {
				opts = append(opts, func(a *syropia.App) { a.Config.OutDir = out })
			}
			a, err := newApp(ctx, opts...)
			if err != nil {
				return err
			}
			report, err := a.Build(ctx.Context)
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			fmt.Printf("Built %d posts and %d pages into %s (%d drafts skipped)\n",
				report.Posts, report.Pages, a.Config.OutDir, report.Drafts)
			return nil
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the preview server",
		Description: `Serves the site from the content directory, re-reading it on
every request so edits show up on reload.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address (overrides addr)",
				EnvVars: []string{"SITE_ADDR"},
			},
			&cli.StringFlag{
				Name:  "content",
				Usage: "Content directory (overrides content_dir)",
			},
			&cli.BoolFlag{
				Name:  "drafts",
				Usage: "Render draft posts",
			},
		},
		Action: func(ctx *cli.Context) error {
			opts := []syropia.Option{syropia.WithDrafts(ctx.Bool("drafts"))}
			if addr := ctx.String("addr"); addr != "" {
				opts = append(opts, func(a *syropia.App) { a.Config.Addr = addr })
			}
			a, err := newApp(ctx, opts...)
			if err != nil {
				return err
			}

			errc := make(chan error, 1)
			go func() { errc <- a.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Context.Done():
				log.Info("Gracefully shutting down...")
				shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return a.Echo.Shutdown(shutdown)
			}
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the syropia version",
		Action: func(ctx *cli.Context) error {
			fmt.Printf("syropia %s\n", version)
			return nil
		},
	}
}
