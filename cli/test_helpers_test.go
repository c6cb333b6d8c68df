package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"
)

func captureOutput(f func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// writeProject lays out a small project with plain JavaScript specs and
// returns the config path. extraConfig is appended to the generated YAML.
func writeProject(t *testing.T, files map[string]string, extraConfig string) (string, string) {
	t.Helper()
	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	configPath := filepath.Join(root, "harness.config.yml")
	configYAML := "appRoot: " + root + "\nscriptLang: js\n" + extraConfig
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	return root, configPath
}

func runCommand(cmd *cli.Command, args ...string) (string, error) {
	app := &cli.App{
		Flags:          []cli.Flag{ConfigFlag},
		Commands:       []*cli.Command{cmd},
		ExitErrHandler: func(*cli.Context, error) {},
	}

	var err error
	out := captureOutput(func() {
		err = app.Run(append([]string{"harness"}, args...))
	})
	return out, err
}
