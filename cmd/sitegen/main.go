package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	sitegen "github.com/goliatone/go-sitegen"
)

const timeRound = time.Millisecond

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("sitegen: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("a command is required")
	}

	switch args[0] {
	case "build":
		return runBuild(args[1:])
	case "clean":
		return runClean(args[1:])
	case "history":
		return runHistory(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: sitegen <command> [flags]

commands:
  build    render the site and publish the output tree
  clean    remove the published output tree
  history  list recent recorded builds`)
}

type commonFlags struct {
	configPath string
	sourceDir  string
	destDir    string
	baseURL    string
	theme      string
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	flags := &commonFlags{}
	fs.StringVar(&flags.configPath, "config", "", "Path to a YAML site config file")
	fs.StringVar(&flags.sourceDir, "source", "", "Directory containing Markdown sources")
	fs.StringVar(&flags.destDir, "dest", "", "Directory receiving the published site")
	fs.StringVar(&flags.baseURL, "base-url", "", "Absolute base URL for generated links")
	fs.StringVar(&flags.theme, "theme", "", "Theme name resolved under the theme base path")
	return flags
}

func (f *commonFlags) resolveConfig() (sitegen.Config, error) {
	var cfg sitegen.Config
	if f.configPath != "" {
		loaded, err := sitegen.LoadConfigFile(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	} else {
		cfg = sitegen.DefaultConfig()
	}

	if dir := strings.TrimSpace(f.sourceDir); dir != "" {
		cfg.Site.SourceDir = dir
	}
	if dir := strings.TrimSpace(f.destDir); dir != "" {
		cfg.Site.DestinationDir = dir
	}
	if base := strings.TrimSpace(f.baseURL); base != "" {
		cfg.Site.BaseURL = base
	}
	if theme := strings.TrimSpace(f.theme); theme != "" {
		cfg.Theme.Name = theme
	}
	return cfg, nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("sitegen-build", flag.ExitOnError)
	flags := registerCommonFlags(fs)
	drafts := fs.Bool("drafts", false, "Include documents marked as drafts")
	dryRun := fs.Bool("dry-run", false, "Render without writing to the destination")
	incremental := fs.Bool("incremental", false, "Skip pages whose sources are unchanged")
	workers := fs.Int("workers", 0, "Render worker count (0 uses one per CPU)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.resolveConfig()
	if err != nil {
		return err
	}
	if *incremental {
		cfg.Generator.Incremental = true
		cfg.Generator.CleanBuild = false
	}

	module, err := sitegen.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = module.Close() }()

	result, err := module.Build(context.Background(), sitegen.BuildOptions{
		DryRun:        *dryRun,
		IncludeDrafts: *drafts,
		Workers:       *workers,
	})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	verb := "published"
	if result.DryRun {
		verb = "validated"
	}
	fmt.Fprintf(os.Stdout, "%s %d pages (%d skipped), %d assets (%d skipped) in %s\n",
		verb,
		result.PagesBuilt, result.PagesSkipped,
		result.AssetsBuilt, result.AssetsSkipped,
		result.Duration.Round(timeRound),
	)
	return nil
}

func runClean(args []string) error {
	fs := flag.NewFlagSet("sitegen-clean", flag.ExitOnError)
	flags := registerCommonFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.resolveConfig()
	if err != nil {
		return err
	}

	module, err := sitegen.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = module.Close() }()

	if err := module.Clean(context.Background()); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	fmt.Fprintf(os.Stdout, "removed %s\n", cfg.Site.DestinationDir)
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("sitegen-history", flag.ExitOnError)
	flags := registerCommonFlags(fs)
	limit := fs.Int("limit", 10, "Maximum number of builds to list")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := flags.resolveConfig()
	if err != nil {
		return err
	}

	module, err := sitegen.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = module.Close() }()

	records, err := module.History(context.Background(), *limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no recorded builds")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tPAGES\tSKIPPED\tASSETS\tDURATION")
	for _, record := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%dms\n",
			record.StartedAt.Format("2006-01-02 15:04:05"),
			record.Status,
			record.PagesBuilt,
			record.PagesSkipped,
			record.AssetsBuilt,
			record.DurationMS,
		)
	}
	return w.Flush()
}
