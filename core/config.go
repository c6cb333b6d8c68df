package core

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHeight     = 400
	DefaultSpecDir    = "spec/javascripts"
	DefaultScriptLang = "coffee"
	DefaultCompiler   = "coffee"

	SpecRootEnv = "HARNESS_SPEC_ROOT"
)

var DefaultCompilerArgs = []string{"--compile", "--print", "--stdio"}

type Config struct {
	AppRoot       string   `yaml:"appRoot"`
	SpecRoot      string   `yaml:"specRoot"`
	SpecDir       string   `yaml:"specDir"`
	ScriptLang    string   `yaml:"scriptLang"`
	Compiler      string   `yaml:"compiler"`
	CompilerArgs  []string `yaml:"compilerArgs"`
	Layout        string   `yaml:"layout"`
	ComponentsDir string   `yaml:"componentsDir"`
	OutputDir     string   `yaml:"outputDir"`
	DefaultHeight int      `yaml:"defaultHeight"`
	Stylesheets   []string `yaml:"stylesheets"`
	Scripts       []string `yaml:"scripts"`
	PublicDir     string   `yaml:"publicDir"`
	Minify        bool     `yaml:"minify"`
	DebugHeaders  bool     `yaml:"debugHeaders"`
	DebugLogs     bool     `yaml:"debugLogs"`
}

// LoadConfig reads path and fills in defaults for anything left unset. A
// missing or unreadable file yields the defaults. HARNESS_SPEC_ROOT, when
// set, takes precedence over the specRoot key.
func LoadConfig(path string) Config {
	var cfg Config

	if data, err := os.ReadFile(path); err == nil {
		yaml.Unmarshal(data, &cfg)
	}

	if env := strings.TrimSpace(os.Getenv(SpecRootEnv)); env != "" {
		cfg.SpecRoot = env
	}

	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.AppRoot == "" {
		c.AppRoot = "."
	}
	if c.SpecDir == "" {
		c.SpecDir = DefaultSpecDir
	}
	if c.ScriptLang == "" {
		c.ScriptLang = DefaultScriptLang
	}
	c.ScriptLang = strings.TrimPrefix(c.ScriptLang, ".")
	if c.Compiler == "" {
		c.Compiler = DefaultCompiler
	}
	if len(c.CompilerArgs) == 0 {
		c.CompilerArgs = append([]string(nil), DefaultCompilerArgs...)
	}
	if c.ComponentsDir == "" {
		c.ComponentsDir = "components"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./cache"
	}
	if c.DefaultHeight <= 0 {
		c.DefaultHeight = DefaultHeight
	}
	return c
}

// AppPath resolves a config-relative path against AppRoot.
func (c Config) AppPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.AppRoot, p)
}
