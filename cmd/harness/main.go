package main

import (
	"log"
	"os"

	harnesscli "github.com/go-barry/harness/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "harness",
		Usage: "Render components and serve compiled specs for in-browser testing",
		Flags: []clilib.Flag{harnesscli.ConfigFlag},
		Commands: []*clilib.Command{
			harnesscli.InitCommand,
			harnesscli.DevCommand,
			harnesscli.ProdCommand,
			harnesscli.BuildCommand,
			harnesscli.CleanCommand,
			harnesscli.CheckCommand,
			harnesscli.InfoCommand,
			harnesscli.SpecsCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
