package level

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poriyaalar/suvadi/internal/layout"
)

func TestLoadEmbedded(t *testing.T) {
	repo, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if repo.Count() < 5 {
		t.Fatalf("expected at least 5 embedded levels, got %d", repo.Count())
	}
	levels := repo.All()
	if levels[0].Key != "level1" {
		t.Fatalf("unexpected first level: %q", levels[0].Key)
	}
	for _, lvl := range levels {
		if lvl.Name == "" {
			t.Fatalf("level %s has no name", lvl.Key)
		}
		if len(lvl.Tasks) == 0 {
			t.Fatalf("level %s has no tasks", lvl.Key)
		}
	}
}

func TestEmbeddedTasksResolveAgainstLayout(t *testing.T) {
	repo, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	table := layout.NewTamil99()
	for _, lvl := range repo.All() {
		for _, task := range lvl.Tasks {
			if _, err := table.Sequence(task); err != nil {
				t.Fatalf("level %s task %q: %v", lvl.Key, task, err)
			}
		}
	}
}

func TestLoadDirNumericOrderAndMultilineContent(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("level10.yaml", "title: ten\ncontent: |\n  அ ஆ\n  இ ஈ\n")
	write("level2.yaml", "title: two\ncontent:\n  - க ங\n")
	write("notes.txt", "ignored")

	repo, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	levels := repo.All()
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].Key != "level2" || levels[1].Key != "level10" {
		t.Fatalf("unexpected order: %q, %q", levels[0].Key, levels[1].Key)
	}
	if len(levels[1].Tasks) != 2 || levels[1].Tasks[0] != "அ ஆ" {
		t.Fatalf("unexpected multiline tasks: %v", levels[1].Tasks)
	}
}

func TestLoadDirRejectsMissingTitle(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "level1.yaml"), []byte("content:\n  - அ\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected error for missing title")
	}
}

func TestLoadDirRejectsEmptyContent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "level1.yaml"), []byte("title: x\ncontent: \"\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected error for empty content")
	}
}

func TestGetUnknownLevel(t *testing.T) {
	repo, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if _, err := repo.Get("level999"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
