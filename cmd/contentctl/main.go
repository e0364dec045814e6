package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
	"portfolio-content-api/internal/config"
	"portfolio-content-api/internal/logging"
	"portfolio-content-api/internal/mirror"
	"portfolio-content-api/internal/services"
)

const usage = "expected 'export', 'import' or 'compact' subcommands"

var collections = []string{"gallery", "auction", "articles"}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCollection := exportCmd.String("collection", "gallery", "gallery, auction or articles")
	exportFormat := exportCmd.String("format", "yaml", "yaml or json")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "YAML seed file to import")

	compactCmd := flag.NewFlagSet("compact", flag.ContinueOnError)
	compactCollection := compactCmd.String("collection", "all", "gallery, auction, articles or all")

	cfg, err := config.LoadContent()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: "text", Writer: os.Stderr})

	mir, err := mirror.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize mirror: %w", err)
	}
	content, err := services.NewContent(cfg, mir, logger)
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch args[0] {
	case "export":
		if err := exportCmd.Parse(args[1:]); err != nil {
			return err
		}
		return doExport(ctx, content, *exportCollection, *exportFormat, stdout)
	case "import":
		if err := importCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.PrintDefaults()
			return errors.New("import requires -file")
		}
		return doImport(ctx, content, *importFile, stdout)
	case "compact":
		if err := compactCmd.Parse(args[1:]); err != nil {
			return err
		}
		return doCompact(ctx, content, *compactCollection, stdout)
	default:
		return errors.New(usage)
	}
}

func doExport(ctx context.Context, content *services.Content, collection, format string, w io.Writer) error {
	var (
		records any
		err     error
	)
	switch collection {
	case "gallery":
		records, err = content.Gallery.List(ctx)
	case "auction":
		records, err = content.Auction.List(ctx)
	case "articles":
		records, err = content.Articles.List(ctx)
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(records)
	case "yaml":
		out, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("encode failed: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func doCompact(ctx context.Context, content *services.Content, collection string, w io.Writer) error {
	targets := []string{collection}
	if collection == "all" {
		targets = collections
	}
	for _, name := range targets {
		var err error
		switch name {
		case "gallery":
			err = content.Gallery.Compact(ctx)
		case "auction":
			err = content.Auction.Compact(ctx)
		case "articles":
			err = content.Articles.Compact(ctx)
		default:
			return fmt.Errorf("unknown collection %q", name)
		}
		if err != nil {
			return fmt.Errorf("compact %s: %w", name, err)
		}
		fmt.Fprintf(w, "compacted %s\n", name)
	}
	return nil
}

// seedFile lists records in display order. Image paths are relative to the seed file.
type seedFile struct {
	Gallery []struct {
		services.GalleryInput `yaml:",inline"`
		Image                 string `yaml:"image"`
	} `yaml:"gallery"`
	Auction []struct {
		services.AuctionInput `yaml:",inline"`
		Image                 string `yaml:"image"`
	} `yaml:"auction"`
	Articles []struct {
		services.ArticleInput `yaml:",inline"`
		Image                 string `yaml:"image"`
	} `yaml:"articles"`
}

// doImport creates every seed record through the same path as the API. Records are
// inserted last to first because each insert goes to the top.
func doImport(ctx context.Context, content *services.Content, filename string, w io.Writer) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}
	base := filepath.Dir(filename)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	now := time.Now()

	for i := len(seed.Gallery) - 1; i >= 0; i-- {
		item := seed.Gallery[i]
		if msg := item.Validate(); msg != "" {
			return fmt.Errorf("gallery[%d]: %s", i, msg)
		}
		if item.Image == "" {
			return fmt.Errorf("gallery[%d]: image is required", i)
		}
		rec, err := content.Gallery.Create(ctx, resolve(item.Image), item.Build(now))
		if err != nil {
			return fmt.Errorf("gallery[%d]: %w", i, err)
		}
		fmt.Fprintf(w, "gallery %s %s\n", rec.ID, rec.Title)
	}

	for i := len(seed.Auction) - 1; i >= 0; i-- {
		item := seed.Auction[i]
		if msg := item.Validate(); msg != "" {
			return fmt.Errorf("auction[%d]: %s", i, msg)
		}
		if item.Image == "" {
			return fmt.Errorf("auction[%d]: image is required", i)
		}
		rec, err := content.Auction.Create(ctx, resolve(item.Image), item.Build())
		if err != nil {
			return fmt.Errorf("auction[%d]: %w", i, err)
		}
		fmt.Fprintf(w, "auction %s %s\n", rec.ID, rec.Title)
	}

	for i := len(seed.Articles) - 1; i >= 0; i-- {
		item := seed.Articles[i]
		if msg := item.Validate(); msg != "" {
			return fmt.Errorf("articles[%d]: %s", i, msg)
		}
		rec, err := content.Articles.Create(ctx, resolve(item.Image), item.Build(now))
		if err != nil {
			return fmt.Errorf("articles[%d]: %w", i, err)
		}
		fmt.Fprintf(w, "articles %s %s\n", rec.ID, rec.Title)
	}
	return nil
}
