package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete precompiled specs and minified assets from the output directory",
	ArgsUsage: "[subdirectory (optional)]",
	Action: func(c *cli.Context) error {
		config := loadConfig(c)
		outputDir := config.AppPath(config.OutputDir)
		target := outputDir

		if c.Args().Len() > 0 {
			sub := strings.TrimPrefix(c.Args().Get(0), "/")
			target = filepath.Join(outputDir, sub)
			if rel, err := filepath.Rel(outputDir, target); err != nil || strings.HasPrefix(rel, "..") {
				return fmt.Errorf("refusing to clean outside the output directory: %s", target)
			}
		}

		info, err := os.Stat(target)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("🧼 Nothing to clean:", target)
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}

		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", target)
		}

		fmt.Println("🧹 Cleaning:", target)
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to clean output: %w", err)
		}

		fmt.Println("✅ Done.")
		return nil
	},
}
