package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"docrag/internal/apperrors"
)

// CollectFiles expands the given paths into the regular files to ingest.
// A file path yields itself. A directory is walked recursively in lexical
// order and contributes every regular file below it. A path that does not
// exist fails the whole call with a path error.
func CollectFiles(ctx context.Context, paths []string) ([]string, error) {
	var files []string

	for _, root := range paths {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.Path("collect files", fmt.Errorf("%s does not exist", root))
			}
			return nil, apperrors.IO("stat "+root, err)
		}

		if !info.IsDir() {
			if info.Mode().IsRegular() {
				files = append(files, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("failed to access path %s: %w", path, err)
			}
			if d.Type().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, apperrors.IO("walk "+root, err)
		}
	}

	return files, nil
}
