package cli

import (
	"fmt"

	"github.com/go-barry/harness/core"
	"github.com/urfave/cli/v2"
)

var SpecsCommand = &cli.Command{
	Name:  "specs",
	Usage: "List every spec and the file it resolves to",
	Action: func(c *cli.Context) error {
		resolver := core.NewResolver(loadConfig(c))

		names, err := resolver.ListSpecs()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("🧼 No specs found in", resolver.Dir())
			return nil
		}

		for _, name := range names {
			path, err := resolver.SpecFile(name)
			if err != nil {
				return err
			}
			fmt.Printf("🧪 %s → %s\n", name, path)
		}
		return nil
	},
}
