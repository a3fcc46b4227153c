package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/analysis"
)

// collectSources reads every source file named by args. Directories are
// walked respecting .gitignore; files are taken as given.
func collectSources(args, exts []string) ([]analysis.SourceText, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			paths = append(paths, arg)

			continue
		}

		found, err := walkDir(arg, exts)
		if err != nil {
			return nil, err
		}

		paths = append(paths, found...)
	}

	sources := make([]analysis.SourceText, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		sources = append(sources, analysis.SourceText{Name: path, Text: string(data)})
	}

	return sources, nil
}

// walkDir returns the source files below root in lexical order.
func walkDir(root string, exts []string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)
	fileWalker.AllowListExtensions = allowList(exts)

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e

		return true
	})

	var (
		paths []string
		wg    sync.WaitGroup
	)

	wg.Go(func() {
		for f := range fileListQueue {
			if !satyls.IsSourceFile(f.Location, exts...) {
				continue
			}

			paths = append(paths, f.Location)
		}
	})

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	slices.Sort(paths)

	return paths, walkErr
}

// allowList converts ".saty" style extensions to the walker's "saty" form.
func allowList(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, strings.TrimPrefix(ext, "."))
	}

	return out
}
