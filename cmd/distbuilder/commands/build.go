package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/distbuilder/internal/build"
	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/history"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Product     string `required:"" help:"Product to build: a product name or 'all'"`
	BuildVer    string `name:"version" required:"" help:"Version string embedded into each manifest (e.g. v1.2.3)"`
	Environment string `default:"production" enum:"production,staging,dev" help:"Build environment selecting the output path prefix"`
	DistDir     string `name:"dist-dir" default:"dist" help:"Path to dist directory"`
	BaseDir     string `name:"base-dir" default:"." help:"Directory containing the data/ and products/ source folders"`
	Clean       bool   `default:"true" negatable:"" help:"Remove each product's output directory before building"`
	Strict      bool   `help:"Treat per-file JSON parse errors as build failures"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}

	env, err := build.ParseEnvironment(b.Environment)
	if err != nil {
		return err
	}

	selected, err := selectProducts(b.BaseDir, b.Product, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Building %d product(s): version=%s environment=%s\n", len(selected), b.BuildVer, b.Environment)

	builder := build.New(cfg, build.Options{
		DistDir:     b.DistDir,
		Version:     b.BuildVer,
		Environment: env,
		Clean:       b.Clean,
	})
	result := builder.Build(context.Background(), selected)

	recordHistory(cfg, result, b.BuildVer, b.Environment)
	reportResult(result)

	if failed := result.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d product build(s) failed", len(failed), len(result.Products))
	}
	if b.Strict && result.ParseFailureCount() > 0 {
		return fmt.Errorf("%d source file(s) failed to parse (strict mode)", result.ParseFailureCount())
	}
	return nil
}

// reportResult prints the user-facing build summary: succeeded/failed
// products, and the exact offending paths for parse errors.
func reportResult(result *build.Result) {
	for _, pr := range result.Products {
		if pr.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", pr.Product, pr.Err)
			continue
		}
		fmt.Printf("ok      %s: %d artifacts, %d bytes -> %s\n",
			pr.Product, pr.Artifacts, pr.TotalBytes, pr.OutputDir)
		for _, f := range pr.ParseFailures {
			fmt.Printf("        skipped malformed JSON: %s\n", f.Path)
		}
	}
}

// recordHistory appends successful product builds to the history store.
// History problems never fail a build.
func recordHistory(cfg *config.Config, result *build.Result, version, environment string) {
	if cfg.History.Path == "" {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("Could not open history store", "path", cfg.History.Path, "error", err)
		return
	}
	defer store.Close()

	for _, pr := range result.Products {
		if pr.Err != nil {
			continue
		}
		_, err := store.Append(context.Background(), history.Record{
			Product:      pr.Product,
			Version:      version,
			Environment:  environment,
			ManifestHash: pr.ManifestHash,
			Artifacts:    pr.Artifacts,
			TotalBytes:   pr.TotalBytes,
			Duration:     pr.Duration,
		})
		if err != nil {
			slog.Warn("Could not record build history", "product", pr.Product, "error", err)
		}
	}
}
