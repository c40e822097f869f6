// Package workspace stores opaque client-supplied JSON blobs under short
// random codes. It shares the cache root with the chart store but none of
// its logic.
package workspace

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 10
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)

// ErrInvalidCode is returned for codes that fail the format check.
var ErrInvalidCode = errors.New("invalid workspace code")

// Store saves and loads workspace blobs in a directory.
type Store struct {
	Dir string
}

// New creates a Store under <cacheDir>/workspaces.
func New(cacheDir string) *Store {
	return &Store{Dir: filepath.Join(cacheDir, "workspaces")}
}

// Save writes the body under a fresh random code and returns the code.
func (s *Store) Save(body string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create workspaces dir: %w", err)
	}

	var code string
	var path string
	for {
		c, err := generateCode()
		if err != nil {
			return "", err
		}
		code = c
		path = filepath.Join(s.Dir, code+".json")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
	}

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("write workspace %s: %w", code, err)
	}
	log.Printf("[INFO] saved workspace: %s", code)
	return code, nil
}

// Load returns the stored body for a code, or "" when absent.
func (s *Store) Load(code string) (string, error) {
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, code+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read workspace %s: %w", code, err)
	}
	return string(data), nil
}

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate workspace code: %w", err)
		}
		buf[i] = alphanumeric[n.Int64()]
	}
	return string(buf), nil
}
