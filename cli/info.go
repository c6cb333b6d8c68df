package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/harness/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print the resolved configuration and a project summary",
	Action: func(c *cli.Context) error {
		config := loadConfig(c)
		resolver := core.NewResolver(config)

		layout := config.Layout
		if layout == "" {
			layout = "(built-in)"
		}

		fmt.Println("📁 Spec Root:", resolver.Root())
		fmt.Println("📁 Spec Directory:", resolver.Dir())
		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🧩 Layout:", layout)
		fmt.Printf("🔧 Compiler: %s %s\n", config.Compiler, strings.Join(config.CompilerArgs, " "))
		fmt.Println("🔁 Minify Enabled:", config.Minify)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println()

		specs, err := resolver.ListSpecs()
		if err != nil {
			return err
		}

		components, err := core.NewComponentRenderer(config, core.RuntimeContext{}).Components()
		if err != nil {
			return err
		}

		compiledCount := 0
		filepath.Walk(filepath.Join(config.AppPath(config.OutputDir), "specs"), func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".js") {
				compiledCount++
			}
			return nil
		})

		fmt.Println("🧪 Specs Found:", len(specs))
		fmt.Println("📦 Components Found:", len(components))
		fmt.Println("💾 Precompiled Specs:", compiledCount)

		return nil
	},
}
