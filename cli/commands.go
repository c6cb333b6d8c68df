package cli

import (
	"github.com/go-barry/harness"
	"github.com/go-barry/harness/core"

	"github.com/urfave/cli/v2"
)

var startServer = harness.Start

// ConfigFlag is registered on the app; every command reads it through the
// context lineage.
var ConfigFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the harness config file",
	Value:   harness.DefaultConfigPath,
	EnvVars: []string{"HARNESS_CONFIG"},
}

var portFlag = &cli.IntFlag{
	Name:  "port",
	Usage: "port to listen on",
	Value: 8080,
}

func configPath(c *cli.Context) string {
	if c != nil {
		if p := c.String(ConfigFlag.Name); p != "" {
			return p
		}
	}
	return harness.DefaultConfigPath
}

func loadConfig(c *cli.Context) core.Config {
	return core.LoadConfig(configPath(c))
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the harness in dev mode (live reload on spec and component changes)",
	Flags: []cli.Flag{portFlag},
	Action: func(c *cli.Context) error {
		return startServer(harness.RuntimeConfig{
			Env:        "dev",
			Port:       c.Int(portFlag.Name),
			ConfigPath: configPath(c),
		})
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start the harness in production mode (minified, cached static assets)",
	Flags: []cli.Flag{portFlag},
	Action: func(c *cli.Context) error {
		return startServer(harness.RuntimeConfig{
			Env:        "prod",
			Port:       c.Int(portFlag.Name),
			ConfigPath: configPath(c),
		})
	},
}
