package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/distbuilder/internal/build"
	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/product"
	"git.home.luguber.info/inful/distbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command: an initial build followed by
// change-triggered rebuilds until interrupted.
type WatchCmd struct {
	Product     string        `required:"" help:"Product to watch: a product name or 'all'"`
	BuildVer    string        `name:"version" required:"" help:"Version string embedded into each manifest"`
	Environment string        `default:"dev" enum:"production,staging,dev" help:"Build environment selecting the output path prefix"`
	DistDir     string        `name:"dist-dir" default:"dist" help:"Path to dist directory"`
	BaseDir     string        `name:"base-dir" default:"." help:"Directory containing the data/ and products/ source folders"`
	Interval    time.Duration `help:"Also rebuild everything on this fixed interval (0 disables)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}

	env, err := build.ParseEnvironment(w.Environment)
	if err != nil {
		return err
	}

	selected, err := selectProducts(w.BaseDir, w.Product, cfg)
	if err != nil {
		return err
	}

	builder := build.New(cfg, build.Options{
		DistDir:     w.DistDir,
		Version:     w.BuildVer,
		Environment: env,
		Clean:       true,
	})

	rebuild := func(ctx context.Context, products []product.Product) {
		result := builder.Build(ctx, products)
		for _, pr := range result.Products {
			if pr.Err != nil {
				slog.Error("Rebuild failed", "product", pr.Product, "error", pr.Err)
			}
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("Watching %d product(s), initial build first (Ctrl-C to stop)\n", len(selected))
	rebuild(ctx, selected)

	watcher, err := watch.New(selected, w.Interval, rebuild)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
