package cli

import (
	"fmt"

	"github.com/go-barry/harness/core"
	"github.com/urfave/cli/v2"
)

var BuildCommand = &cli.Command{
	Name:  "build",
	Usage: "Precompile every spec into the output directory",
	Action: func(c *cli.Context) error {
		config := loadConfig(c)
		specs := core.NewSpecServer(core.NewResolver(config), core.NewCompiler(config))

		results, err := core.PrecompileAll(c.Context, config, specs)
		if err != nil {
			return fmt.Errorf("failed to precompile specs: %w", err)
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Printf("❌ %s → %v\n", r.Name, r.Err)
				continue
			}
			fmt.Printf("📦 %s → %s\n", r.Name, r.Output)
		}

		if failed > 0 {
			return cli.Exit(fmt.Sprintf("%d of %d specs failed to compile", failed, len(results)), 1)
		}

		fmt.Printf("✅ %d specs compiled.\n", len(results))
		return nil
	},
}
