package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/distbuilder/internal/config"
	"git.home.luguber.info/inful/distbuilder/internal/contracts"
)

// UpdateContractsCmd implements the 'update-contracts' command.
type UpdateContractsCmd struct {
	DataFile string `name:"data-file" help:"Path to smart_contracts.json (defaults to the configured update.data_file)"`
	DryRun   bool   `name:"dry-run" help:"Show the merged result without writing the data file"`
}

func (u *UpdateContractsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.LoadOrDefault(root.Config)
	if err != nil {
		return err
	}

	dataFile := u.DataFile
	if dataFile == "" {
		dataFile = cfg.Update.DataFile
	}

	updater := contracts.NewUpdater(contracts.NewClient(cfg.Update.CoreRawBase), dataFile)
	merged, err := updater.Run(context.Background(), u.DryRun)
	if err != nil {
		return err
	}

	if u.DryRun {
		fmt.Printf("Dry run: %d smart contract(s) after merge (not written)\n", len(merged))
	} else {
		fmt.Printf("Updated %s with %d smart contract(s)\n", dataFile, len(merged))
	}
	for _, c := range merged {
		fmt.Printf("  %3d  %-24s %-16s %d procedure(s)\n", c.ContractIndex, c.Filename, c.Label, len(c.Procedures))
	}
	return nil
}
