package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrProviderDisabled = errors.New("provider is disabled")
	ErrChecksumMismatch = errors.New("provider checksum mismatch")
	ErrProviderTimeout  = errors.New("provider timeout")
	ErrNoMatch          = errors.New("no matching book found")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one external metadata provider binary. Providers are
// spawned on demand; the checksum is verified before every spawn.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("provider name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("provider version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("provider binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("provider sha256 must be lowercase 64-char hex")
	}
	return nil
}

// Metadata is what a provider reports about itself.
type Metadata struct {
	Name    string
	Version string
	Sources []string
}

// LookupQuery identifies a book to resolve. At least one field must be set.
type LookupQuery struct {
	Title  string
	Author string
	ISBN   string
}

func (q LookupQuery) Validate() error {
	if strings.TrimSpace(q.Title) == "" && strings.TrimSpace(q.Author) == "" && strings.TrimSpace(q.ISBN) == "" {
		return fmt.Errorf("lookup query needs a title, author or isbn")
	}
	return nil
}

// LookupResult is the resolved book metadata.
type LookupResult struct {
	Found     bool
	Title     string
	Authors   []string
	Genres    []string
	PageCount int
}
