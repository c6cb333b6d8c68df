package core

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tdewolff/minify/v2"
	minjs "github.com/tdewolff/minify/v2/js"
)

// Compiler turns spec source into JavaScript. filename is used for error
// messages only.
type Compiler interface {
	Compile(ctx context.Context, filename string, src []byte) ([]byte, error)
}

var execCommandContext = exec.CommandContext

// CommandCompiler pipes the source through an external compiler, e.g.
// `coffee --compile --print --stdio`, and returns its stdout.
type CommandCompiler struct {
	Command string
	Args    []string
}

func (c CommandCompiler) Compile(ctx context.Context, filename string, src []byte) ([]byte, error) {
	cmd := execCommandContext(ctx, c.Command, c.Args...)
	cmd.Stdin = bytes.NewReader(src)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrCompile, filename, msg)
	}

	return out.Bytes(), nil
}

// PassthroughCompiler serves plain JavaScript specs unchanged.
type PassthroughCompiler struct{}

func (PassthroughCompiler) Compile(_ context.Context, _ string, src []byte) ([]byte, error) {
	return src, nil
}

// MinifyingCompiler minifies whatever the wrapped compiler produces.
type MinifyingCompiler struct {
	Next Compiler
	m    *minify.M
}

func NewMinifyingCompiler(next Compiler) *MinifyingCompiler {
	m := minify.New()
	m.AddFunc("application/javascript", minjs.Minify)
	return &MinifyingCompiler{Next: next, m: m}
}

func (c *MinifyingCompiler) Compile(ctx context.Context, filename string, src []byte) ([]byte, error) {
	compiled, err := c.Next.Compile(ctx, filename, src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.m.Minify("application/javascript", &buf, bytes.NewReader(compiled)); err != nil {
		return nil, fmt.Errorf("%w: minify %s: %v", ErrCompile, filename, err)
	}
	return buf.Bytes(), nil
}

// NewCompiler picks the compiler for the configured script language.
func NewCompiler(config Config) Compiler {
	config = config.withDefaults()

	var c Compiler
	if config.ScriptLang == "js" {
		c = PassthroughCompiler{}
	} else {
		c = CommandCompiler{Command: config.Compiler, Args: config.CompilerArgs}
	}

	if config.Minify {
		return NewMinifyingCompiler(c)
	}
	return c
}
