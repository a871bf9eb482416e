package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/syropia/syropia/content"
	"github.com/syropia/syropia/scaffold"
)

func newCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "description",
			Aliases: []string{"d"},
			Usage:   "Front matter description",
		},
		&cli.StringFlag{
			Name:  "content",
			Usage: "Content directory (overrides content_dir)",
		},
	}
	return &cli.Command{
		Name:  "new",
		Usage: "Create a post or page from a template",
		Subcommands: []*cli.Command{
			{
				Name:      "post",
				Usage:     "Create a draft post",
				ArgsUsage: "<title>",
				Flags:     flags,
				Action: func(ctx *cli.Context) error {
					return runNew(ctx, content.Posts)
				},
			},
			{
				Name:      "page",
				Usage:     "Create a page",
				ArgsUsage: "<title>",
				Flags:     flags,
				Action: func(ctx *cli.Context) error {
					return runNew(ctx, content.Pages)
				},
			},
		},
	}
}

func runNew(ctx *cli.Context, collection string) error {
	title := strings.TrimSpace(strings.Join(ctx.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("usage: syropia new %s <title>", strings.TrimSuffix(collection, "s"))
	}
	slug := content.Slugify(title)
	if slug == "" {
		return fmt.Errorf("title %q has no usable slug characters", title)
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	dir := cfg.ContentDir
	if d := ctx.String("content"); d != "" {
		dir = d
	}
	outPath, err := createEntry(dir, collection, slug, scaffold.Data{
		Title:       title,
		Description: ctx.String("description"),
		Date:        time.Now(),
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"collection": collection, "slug": slug}).Info("created entry")
	fmt.Printf("  created %s\n", outPath)
	return nil
}

// createEntry writes <dir>/<collection>/<slug>.md and refuses to overwrite
// an existing file.
func createEntry(dir, collection, slug string, data scaffold.Data) (string, error) {
	outPath := filepath.Join(dir, collection, slug+".md")
	if _, err := os.Stat(outPath); err == nil {
		return "", fmt.Errorf("file %q already exists", outPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	if err := scaffold.Execute(f, collection, data); err != nil {
		f.Close()
		os.Remove(outPath)
		return "", err
	}
	return outPath, f.Close()
}
