package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// SpecServer reads and compiles spec files. Nothing is cached: each call
// goes back to disk and through the compiler.
type SpecServer struct {
	resolver *Resolver
	compiler Compiler
}

func NewSpecServer(resolver *Resolver, compiler Compiler) *SpecServer {
	return &SpecServer{resolver: resolver, compiler: compiler}
}

func (s *SpecServer) Resolver() *Resolver {
	return s.resolver
}

// Source returns the resolved path and the raw content for name.
func (s *SpecServer) Source(name string) (string, []byte, error) {
	path, err := s.resolver.SpecFile(name)
	if err != nil {
		return "", nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil, fmt.Errorf("%w: %s", ErrSpecNotFound, name)
		}
		return path, nil, fmt.Errorf("reading spec %s: %w", path, err)
	}

	return path, src, nil
}

func (s *SpecServer) Compile(ctx context.Context, name string) ([]byte, error) {
	path, src, err := s.Source(name)
	if err != nil {
		return nil, err
	}
	return s.compiler.Compile(ctx, path, src)
}
