package cli

import (
	"fmt"
	"io"

	"github.com/go-barry/harness/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Render every component in the layout and compile every spec",
	Action: func(c *cli.Context) error {
		config := loadConfig(c)
		var failed bool

		renderer := core.NewComponentRenderer(config, core.RuntimeContext{Env: "dev"})
		components, err := renderer.Components()
		if err != nil {
			return fmt.Errorf("failed to list components: %w", err)
		}

		for _, name := range components {
			if err := renderer.Render(io.Discard, name, config.DefaultHeight); err != nil {
				failed = true
				fmt.Printf("❌ component %s → %v\n", name, err)
				continue
			}
			fmt.Printf("✅ component %s\n", name)
		}

		specs := core.NewSpecServer(core.NewResolver(config), core.NewCompiler(config))
		names, err := specs.Resolver().ListSpecs()
		if err != nil {
			return fmt.Errorf("failed to list specs: %w", err)
		}

		for _, name := range names {
			if _, err := specs.Compile(c.Context, name); err != nil {
				failed = true
				fmt.Printf("❌ spec %s → %v\n", name, err)
				continue
			}
			fmt.Printf("✅ spec %s\n", name)
		}

		if failed {
			return cli.Exit("some components or specs failed", 1)
		}

		fmt.Println("✅ All components and specs validated successfully.")
		return nil
	},
}
