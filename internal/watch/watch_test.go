package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/distbuilder/internal/product"
)

func TestProductFor(t *testing.T) {
	base := t.TempDir()
	products := []product.Product{
		{Name: "general", SourceRoot: filepath.Join(base, "data")},
		{Name: "wallet-app", SourceRoot: filepath.Join(base, "products", "wallet-app")},
	}
	w := &Watcher{products: products}

	assert.Equal(t, "general", w.productFor(filepath.Join(base, "data", "tokens.json")))
	assert.Equal(t, "wallet-app", w.productFor(filepath.Join(base, "products", "wallet-app", "sub", "x.json")))
	assert.Empty(t, w.productFor(filepath.Join(base, "elsewhere", "x.json")))
}

func TestRebuildOnChange(t *testing.T) {
	base := t.TempDir()
	dataDir := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	products := []product.Product{{Name: "general", SourceRoot: dataDir}}

	var mu sync.Mutex
	var rebuilt [][]string
	rebuild := func(_ context.Context, affected []product.Product) {
		mu.Lock()
		defer mu.Unlock()
		rebuilt = append(rebuilt, product.Names(affected))
	}

	w, err := New(products, 0, rebuild)
	require.NoError(t, err)
	w.debounceTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "tokens.json"), []byte(`{"a":1}`), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(rebuilt) > 0
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"general"}, rebuilt[0])
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}
