// Package product discovers buildable products from the source tree.
//
// The root data/ directory is published as the "general" product; every
// directory under products/ is a product of its own name. Presence of the
// directory is the only registration needed.
package product

import (
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/distbuilder/internal/config"
)

// GeneralName is the product backed by the root data directory.
const GeneralName = "general"

// Product is a named collection of source files rooted at a fixed directory.
type Product struct {
	Name       string
	SourceRoot string
	// OutputSubdir is appended below the product output root. The general
	// product keeps its files under a data/ subdirectory so client URLs
	// stay stable relative to the original layout.
	OutputSubdir string
}

// Discover lists the products available under baseDir.
// Results are sorted by name for deterministic multi-product builds.
func Discover(baseDir string, cfg *config.Config) ([]Product, error) {
	var products []Product

	dataDir := filepath.Join(baseDir, cfg.Source.DataDir)
	if info, err := os.Stat(dataDir); err == nil && info.IsDir() {
		products = append(products, Product{
			Name:         GeneralName,
			SourceRoot:   dataDir,
			OutputSubdir: filepath.Base(cfg.Source.DataDir),
		})
	}

	productsDir := filepath.Join(baseDir, cfg.Source.ProductsDir)
	entries, err := os.ReadDir(productsDir)
	if err != nil {
		if os.IsNotExist(err) {
			sortProducts(products)
			return products, nil
		}
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		products = append(products, Product{
			Name:       entry.Name(),
			SourceRoot: filepath.Join(productsDir, entry.Name()),
		})
	}

	sortProducts(products)
	return products, nil
}

// Select resolves a product selector ("all" or a single name) against the
// discovered set. Returns the products to build, or nil if the name is unknown.
func Select(products []Product, selector string) []Product {
	if selector == "all" {
		return products
	}
	for _, p := range products {
		if p.Name == selector {
			return []Product{p}
		}
	}
	return nil
}

// Names returns the product names in order.
func Names(products []Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func sortProducts(products []Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}
