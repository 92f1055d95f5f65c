package product_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/product"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
}

func TestDiscover(t *testing.T) {
	base := t.TempDir()
	mkdirs(t,
		filepath.Join(base, "data"),
		filepath.Join(base, "products", "wallet-app"),
		filepath.Join(base, "products", "explorer"),
	)
	// Plain files under products/ are not products.
	require.NoError(t, os.WriteFile(filepath.Join(base, "products", "notes.txt"), []byte("x"), 0o644))

	products, err := product.Discover(base, defaultConfig(t))
	require.NoError(t, err)
	require.Equal(t, []string{"explorer", "general", "wallet-app"}, product.Names(products))

	for _, p := range products {
		if p.Name == product.GeneralName {
			assert.Equal(t, filepath.Join(base, "data"), p.SourceRoot)
			assert.Equal(t, "data", p.OutputSubdir)
		} else {
			assert.Empty(t, p.OutputSubdir)
		}
	}
}

func TestDiscoverWithoutDataDir(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, filepath.Join(base, "products", "wallet-app"))

	products, err := product.Discover(base, defaultConfig(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"wallet-app"}, product.Names(products))
}

func TestDiscoverEmptyTree(t *testing.T) {
	products, err := product.Discover(t.TempDir(), defaultConfig(t))
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSelect(t *testing.T) {
	base := t.TempDir()
	mkdirs(t, filepath.Join(base, "data"), filepath.Join(base, "products", "wallet-app"))

	products, err := product.Discover(base, defaultConfig(t))
	require.NoError(t, err)

	assert.Len(t, product.Select(products, "all"), 2)
	one := product.Select(products, "wallet-app")
	require.Len(t, one, 1)
	assert.Equal(t, "wallet-app", one[0].Name)
	assert.Nil(t, product.Select(products, "nope"))
}
