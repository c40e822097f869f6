package mirror

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestGitMirror_InitAndCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	g := NewGitMirror(dir)
	g.Init()
	if !g.enabled {
		t.Fatal("mirror should be enabled after init")
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		t.Fatalf("expected .git dir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte("# symbol=AAPL\n"), 0644); err != nil {
		t.Fatal(err)
	}
	g.CommitChanges("Add AAPL")

	out, err := g.git("log", "--oneline")
	if err != nil {
		t.Fatalf("git log: %v (%s)", err, out)
	}
	if !strings.Contains(out, "Add AAPL") {
		t.Errorf("expected commit message in log, got %q", out)
	}
}

func TestGitMirror_NoChangesNoCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	g := NewGitMirror(dir)
	g.Init()
	g.CommitChanges("empty")

	out, _ := g.git("log", "--oneline")
	if strings.Contains(out, "empty") {
		t.Errorf("commit created with no changes: %q", out)
	}
}

func TestGitMirror_DisabledIsSafe(t *testing.T) {
	g := NewGitMirror(filepath.Join(t.TempDir(), "never-initialized"))
	// Init not called: CommitChanges must be a no-op, not a panic.
	g.CommitChanges("Add AAPL")
}

func TestGitMirror_ReopensExistingRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	first := NewGitMirror(dir)
	first.Init()

	second := NewGitMirror(dir)
	second.Init()
	if !second.enabled {
		t.Error("mirror should reopen an existing repository")
	}
}
