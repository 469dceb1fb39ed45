package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind tells the loader how to read a definition file.
type Kind int

const (
	KindYAML Kind = iota
	KindGo
)

func (k Kind) String() string {
	if k == KindGo {
		return "go"
	}
	return "yaml"
}

// File is a candidate definition file found by Walk.
type File struct {
	Path string
	Kind Kind
}

// Walk collects definition files under dir, sorted by path. Symlinks are not
// followed. A directory is skipped, with everything below it, when its path
// or base name appears in exclude. A missing dir yields no files.
func Walk(dir string, exclude []string) ([]File, error) {
	root := strings.TrimSpace(dir)
	if root == "" {
		return nil, nil
	}
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("discovery: stat %s: %w", root, err)
	}

	skip := make(map[string]bool, len(exclude))
	for _, ex := range exclude {
		if ex = strings.TrimSpace(ex); ex != "" {
			skip[filepath.Clean(ex)] = true
		}
	}

	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (skip[filepath.Clean(path)] || skip[d.Name()]) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if kind, ok := kindOf(d.Name()); ok {
			files = append(files, File{Path: path, Kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func kindOf(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return KindYAML, true
	case strings.HasSuffix(lower, "_test.go"):
		return 0, false
	case strings.HasSuffix(lower, ".go"):
		return KindGo, true
	}
	return 0, false
}
