package core

import (
	"context"
	"path/filepath"
)

// CompiledSpecPath is where a precompiled spec is written under outputDir.
func CompiledSpecPath(config Config, name string) string {
	config = config.withDefaults()
	return filepath.Join(config.AppPath(config.OutputDir), "specs", filepath.FromSlash(name)+".js")
}

// SaveCompiledSpec writes js and a gzipped copy next to it.
func SaveCompiledSpec(config Config, name string, js []byte) (string, error) {
	path := CompiledSpecPath(config, name)
	return path, writeWithGzip(path, js)
}

type PrecompileResult struct {
	Name   string
	Output string
	Err    error
}

// PrecompileAll compiles every spec the resolver lists into outputDir.
// Failures are reported per spec and do not stop the run.
func PrecompileAll(ctx context.Context, config Config, specs *SpecServer) ([]PrecompileResult, error) {
	names, err := specs.Resolver().ListSpecs()
	if err != nil {
		return nil, err
	}

	results := make([]PrecompileResult, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := PrecompileResult{Name: name}
		js, err := specs.Compile(ctx, name)
		if err == nil {
			res.Output, err = SaveCompiledSpec(config, name, js)
		}
		res.Err = err
		results = append(results, res)
	}
	return results, nil
}
