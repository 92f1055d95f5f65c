package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/errors"
	"git.home.luguber.info/inful/distbuilder/internal/product"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"distbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"app-version" help:"Show distbuilder version and exit"`

	Build           BuildCmd           `cmd:"" help:"Build distribution files for one or all products"`
	Products        ProductsCmd        `cmd:"" help:"List discovered products and their source files"`
	Watch           WatchCmd           `cmd:"" help:"Rebuild products when their source files change"`
	History         HistoryCmd         `cmd:"" help:"Show recorded builds from the history store"`
	UpdateContracts UpdateContractsCmd `cmd:"" name:"update-contracts" help:"Refresh the smart contracts data file from the core repository"`
	Init            InitCmd            `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// selectProducts discovers products under baseDir and resolves the selector.
func selectProducts(baseDir, selector string, cfg *config.Config) ([]product.Product, error) {
	discovered, err := product.Discover(baseDir, cfg)
	if err != nil {
		return nil, err
	}
	if len(discovered) == 0 {
		return nil, errors.New(errors.CategoryConfig, errors.SeverityFatal,
			"no products found (expected a data/ folder or products/* folders)")
	}

	selected := product.Select(discovered, selector)
	if len(selected) == 0 {
		return nil, errors.UnknownProduct(selector, product.Names(discovered))
	}
	return selected, nil
}
