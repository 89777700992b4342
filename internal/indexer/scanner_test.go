package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"docrag/internal/apperrors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "a", "d.md"), "d")
	writeFile(t, filepath.Join(root, "a", "c.txt"), "c")
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	single := filepath.Join(t.TempDir(), "single.txt")
	writeFile(t, single, "s")

	got, err := CollectFiles(context.Background(), []string{single, root})
	if err != nil {
		t.Fatalf("CollectFiles() error = %v", err)
	}

	want := []string{
		single,
		filepath.Join(root, "a", "c.txt"),
		filepath.Join(root, "a", "d.md"),
		filepath.Join(root, "b.txt"),
	}
	if len(got) != len(want) {
		t.Fatalf("CollectFiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CollectFiles()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCollectFiles_MissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := CollectFiles(context.Background(), []string{missing})
	if !errors.Is(err, apperrors.ErrPath) {
		t.Errorf("CollectFiles() error = %v, want ErrPath", err)
	}
}

func TestCollectFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CollectFiles(ctx, []string{t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CollectFiles() error = %v, want context.Canceled", err)
	}
}
