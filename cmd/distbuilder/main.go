package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/distbuilder/cmd/distbuilder/commands"
	"git.home.luguber.info/inful/distbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("distbuilder"),
		kong.Description("Build versioned static JSON/XML distributions with minified twins, bundles and version manifests."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
