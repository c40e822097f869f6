// Package mirror snapshots the cache directory into a local git repository
// after each update. Everything here is best-effort: a broken or missing
// git install degrades to logging, never to request failures.
package mirror

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

const (
	authorName  = "ChartVault"
	authorEmail = "chartvault@local"
)

// GitMirror commits cache-directory changes using the system git binary.
type GitMirror struct {
	dir     string
	mu      sync.Mutex
	enabled bool
}

// NewGitMirror creates a mirror over dir. Call Init before use.
func NewGitMirror(dir string) *GitMirror {
	return &GitMirror{dir: dir}
}

// Init creates the cache directory and initializes a git repository in it
// if one does not exist. On any failure the mirror stays disabled.
func (g *GitMirror) Init() {
	if _, err := exec.LookPath("git"); err != nil {
		log.Printf("[WARN] git binary not found, cache mirror disabled: %v", err)
		return
	}
	if err := os.MkdirAll(g.dir, 0755); err != nil {
		log.Printf("[ERROR] create cache dir for mirror: %v", err)
		return
	}
	if _, err := os.Stat(filepath.Join(g.dir, ".git")); err == nil {
		log.Printf("[INFO] opened existing git repo at %s", g.dir)
		g.enabled = true
		return
	}
	if out, err := g.git("init"); err != nil {
		log.Printf("[ERROR] init git cache repo: %v (%s)", err, out)
		return
	}
	log.Printf("[INFO] initialized new git repo at %s", g.dir)
	g.enabled = true
}

// CommitChanges stages everything under the cache directory and commits if
// anything changed. Errors are logged, never returned.
func (g *GitMirror) CommitChanges(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled {
		return
	}
	if out, err := g.git("add", "-A"); err != nil {
		log.Printf("[WARN] git add failed: %v (%s)", err, out)
		return
	}
	status, err := g.git("status", "--porcelain")
	if err != nil {
		log.Printf("[WARN] git status failed: %v (%s)", err, status)
		return
	}
	if strings.TrimSpace(status) == "" {
		return
	}
	if out, err := g.git(
		"-c", "user.name="+authorName,
		"-c", "user.email="+authorEmail,
		"commit", "-m", message,
		"--author", fmt.Sprintf("%s <%s>", authorName, authorEmail),
	); err != nil {
		log.Printf("[WARN] git commit failed: %v (%s)", err, out)
		return
	}
	log.Printf("[INFO] committed cache snapshot: %s", message)
}

func (g *GitMirror) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
