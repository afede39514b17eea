// Package mirror handles Markdown file discovery and the mirrored output
// directory that rewritten files are written to.
package mirror

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/marknum/internal/parser"
	"github.com/natefinch/atomic"
)

// Files returns the Markdown files under inputDir in sorted order. The
// output directory is skipped so a previous run's results are never
// re-processed.
func Files(inputDir, outputDir string) ([]string, error) {
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	walkErr := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, absErr := filepath.Abs(path); absErr == nil && abs == absOut {
				return filepath.SkipDir
			}
			return nil
		}
		if parser.IsSupportedExtension(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", inputDir, walkErr)
	}

	sort.Strings(files)
	return files, nil
}

// Prepare recreates inputDir's directory structure under outputDir.
func Prepare(inputDir, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}

	return filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if abs, absErr := filepath.Abs(path); absErr == nil && abs == absOut {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		return os.MkdirAll(filepath.Join(outputDir, rel), 0o755)
	})
}

// Write stores content at inputFile's mirrored path under outputDir and
// returns that path. The write is atomic so an interrupted run never
// leaves a half-written file.
func Write(inputFile, inputDir, outputDir, content string) (string, error) {
	rel, err := filepath.Rel(inputDir, inputFile)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", inputFile, err)
	}
	out := filepath.Join(outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := atomic.WriteFile(out, strings.NewReader(content)); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}
