package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Artifact is a named unit of source content submitted for compliance
// checking. Layer is assigned once by classification at the start of a run
// and never changes afterward.
type Artifact struct {
	Identifier string
	Content    string
	Layer      LayerTag
}

// recognizedExtensions lists the source file extensions the walker picks up.
// The architecture this tool checks ships as C++ and MQL5 source.
var recognizedExtensions = map[string]bool{
	".cpp": true,
	".cc":  true,
	".cxx": true,
	".h":   true,
	".hpp": true,
	".mqh": true,
	".mq5": true,
}

// CollectArtifacts walks root and loads every recognized source file into an
// in-memory Artifact. Unreadable files are logged and skipped; they do not
// fail the run. Identifiers are root-relative, slash-separated paths, so a
// tree scanned twice yields the same artifact list in the same order.
func CollectArtifacts(root string, logger *zap.Logger) ([]Artifact, error) {
	var artifacts []Artifact

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}

		if !recognizedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable artifact", zap.String("path", path), zap.Error(err))
			return nil
		}

		identifier := path
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			identifier = rel
		}

		artifacts = append(artifacts, Artifact{
			Identifier: filepath.ToSlash(identifier),
			Content:    string(src),
		})
		return nil
	})

	return artifacts, err
}
