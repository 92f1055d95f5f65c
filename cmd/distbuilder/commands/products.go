package commands

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/product"
)

// ProductsCmd implements the 'products' command.
type ProductsCmd struct {
	BaseDir string `name:"base-dir" default:"." help:"Directory containing the data/ and products/ source folders"`
}

func (p *ProductsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}

	discovered, err := product.Discover(p.BaseDir, cfg)
	if err != nil {
		return err
	}
	if len(discovered) == 0 {
		fmt.Println("No products found. Expected a data/ folder or products/* folders.")
		return nil
	}

	fmt.Printf("Found %d product(s):\n", len(discovered))
	for _, prod := range discovered {
		files, jsonFiles := countSources(prod.SourceRoot, cfg)
		fmt.Printf("  %-20s %s (%d files, %d JSON)\n", prod.Name, prod.SourceRoot, files, jsonFiles)
	}
	return nil
}

func countSources(root string, cfg *config.Config) (files, jsonFiles int) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || cfg.Excluded(d.Name()) {
			return nil
		}
		files++
		if filepath.Ext(d.Name()) == ".json" {
			jsonFiles++
		}
		return nil
	})
	return files, jsonFiles
}
