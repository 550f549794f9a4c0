// Package models defines the domain types for Ansuz.
package models

import (
	"os"
	"path/filepath"
)

// Source supplies a note's raw content on demand. Content is deliberately
// not held on RawNote so that scanning a large vault does not load every
// file into memory.
type Source interface {
	ReadRaw() ([]byte, error)
}

// FileSource is a Source backed by a file on disk.
type FileSource struct {
	Path string
}

// ReadRaw reads the file contents.
func (f FileSource) ReadRaw() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// RawNote is a note's file-level identity plus the metadata learned from
// reading the file once during discovery. It is never mutated after
// construction.
//
// The two date fields keep the textual representation found in the
// frontmatter; reparsing them into another type would reformat dates the
// author wrote deliberately.
type RawNote struct {
	Source          Source
	Path            string
	Title           string
	Identifier      string
	Frontmatter     map[string]any
	Tags            []string
	CreationDate    string
	PublicationDate string
}

// Name returns the note's file name without extension.
func (n *RawNote) Name() string {
	base := filepath.Base(n.Path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// ProcessedDocument is the result of transforming one note for publishing.
// It is created once per note per run and owned by the caller; nothing is
// shared between documents.
type ProcessedDocument struct {
	Note             *RawNote
	Content          string
	Frontmatter      map[string]any
	Tags             []string
	ReferencedImages []string
	MissingLinks     []string
}

// PublishFailure records a note that could not be published.
type PublishFailure struct {
	Title string
	Err   error
}

// PublishResult summarises a publish run.
type PublishResult struct {
	PublishedTitles []string
	Failures        []PublishFailure
	MissingLinks    map[string][]string
	RemovedImages   []string
	DryRun          bool
}
