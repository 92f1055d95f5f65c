package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Product string `help:"Only show builds of this product"`
	Limit   int    `default:"20" help:"Maximum number of builds to show"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("build history is disabled (history.path is empty in %s)", root.Config)
	}
	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		fmt.Println("No builds recorded yet.")
		return nil
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background(), h.Product, h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No builds recorded yet.")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %-20s %-12s %-10s %4d artifacts  %10d bytes  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Product, r.Version, r.Environment, r.Artifacts, r.TotalBytes,
			shortHash(r.ManifestHash))
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
