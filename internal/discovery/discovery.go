// Package discovery scans the vault for publishable notes. It reads each
// file once, keeps only metadata (title, identifier, frontmatter, tags,
// date strings), and hands back RawNotes whose content is re-read lazily
// during processing.
package discovery

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/slug"
	"github.com/starford/ansuz/internal/storage"
)

// Scanner finds and filters notes eligible for publishing.
type Scanner struct {
	store        storage.Provider
	sourceDirs   []string
	requiredTags map[string]struct{}
	excludedTags map[string]struct{}
	normalize    slug.Func
	logger       *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithSourceDirs sets the vault subdirectories to scan (default: the vault
// root).
func WithSourceDirs(dirs ...string) ScannerOption {
	return func(s *Scanner) {
		if len(dirs) > 0 {
			s.sourceDirs = dirs
		}
	}
}

// WithRequiredTags keeps only notes carrying at least one of the given
// tags.
func WithRequiredTags(tags ...string) ScannerOption {
	return func(s *Scanner) { s.requiredTags = toSet(tags) }
}

// WithExcludedTags drops notes carrying any of the given tags.
func WithExcludedTags(tags ...string) ScannerOption {
	return func(s *Scanner) { s.excludedTags = toSet(tags) }
}

// WithNormalizer overrides the identifier normaliser.
func WithNormalizer(fn slug.Func) ScannerOption {
	return func(s *Scanner) { s.normalize = fn }
}

// WithLogger sets the scanner's logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = logger }
}

// NewScanner builds a Scanner over the given vault provider.
func NewScanner(store storage.Provider, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		store:      store,
		sourceDirs: []string{"."},
		normalize:  slug.Default(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverAll returns every note under the source directories that passes
// the tag filters. Individual parse failures are logged and skipped; a
// completely absent set of source directories is an error.
func (s *Scanner) DiscoverAll() ([]*models.RawNote, error) {
	var existing []string
	for _, dir := range s.sourceDirs {
		if !s.store.Exists(dir) {
			s.logger.Warn("discovery: source directory not found", slog.String("dir", dir))
			continue
		}
		existing = append(existing, dir)
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNoSourceDirs, strings.Join(s.sourceDirs, ", "))
	}

	var notes []*models.RawNote
	for _, dir := range existing {
		infos, err := s.store.List(dir, ".md")
		if err != nil {
			return nil, fmt.Errorf("discovery: list %s: %w", dir, err)
		}
		for _, info := range infos {
			note, err := s.noteMetadata(info.Path)
			if err != nil {
				s.logger.Warn("discovery: parse failed",
					slog.String("path", info.Path),
					slog.String("error", err.Error()))
				continue
			}
			if ok, reason := s.Publishable(note); !ok {
				s.logger.Debug("discovery: skipped",
					slog.String("path", info.Path),
					slog.String("reason", reason))
				continue
			}
			notes = append(notes, note)
		}
	}
	return notes, nil
}

// Note finds a single note by vault-relative path, file name (with or
// without .md), or title.
func (s *Scanner) Note(nameOrPath string) (*models.RawNote, error) {
	if strings.HasSuffix(nameOrPath, ".md") && s.store.Exists(nameOrPath) {
		return s.noteMetadata(nameOrPath)
	}

	stem := strings.TrimSuffix(path.Base(nameOrPath), ".md")
	want := strings.ToLower(stem)

	for _, dir := range s.sourceDirs {
		if !s.store.Exists(dir) {
			continue
		}
		candidate := path.Join(dir, stem+".md")
		if s.store.Exists(candidate) {
			return s.noteMetadata(candidate)
		}
		infos, err := s.store.List(dir, ".md")
		if err != nil {
			continue
		}
		for _, info := range infos {
			note, err := s.noteMetadata(info.Path)
			if err != nil {
				continue
			}
			if strings.ToLower(note.Title) == want {
				return note, nil
			}
		}
	}
	return nil, fmt.Errorf("discovery: note %q: %w", nameOrPath, apperr.ErrNotFound)
}

// Publishable reports whether a note meets the tag criteria, with a human
// readable reason when it does not.
func (s *Scanner) Publishable(note *models.RawNote) (bool, string) {
	if len(s.requiredTags) > 0 && !intersects(note.Tags, s.requiredTags) {
		return false, "missing required tags: " + joinSet(s.requiredTags)
	}
	if found := intersection(note.Tags, s.excludedTags); len(found) > 0 {
		return false, "contains excluded tags: " + strings.Join(found, ", ")
	}
	return true, "ok"
}

// noteMetadata reads and parses one file into a RawNote. Content is not
// retained; the note's Source re-reads it on demand.
func (s *Scanner) noteMetadata(relPath string) (*models.RawNote, error) {
	data, err := s.store.Read(relPath)
	if err != nil {
		return nil, err
	}

	fm := parseFrontmatter(data, relPath, s.logger)
	title := stringField(fm, "title")
	if title == "" {
		base := path.Base(relPath)
		title = strings.TrimSuffix(base, path.Ext(base))
	}

	return &models.RawNote{
		Source:          storeSource{store: s.store, path: relPath},
		Path:            relPath,
		Title:           title,
		Identifier:      s.normalize(title),
		Frontmatter:     fm,
		Tags:            extractTags(fm),
		CreationDate:    dateString(fm["created"]),
		PublicationDate: dateString(fm["date"]),
	}, nil
}

// storeSource reads a note's content through the vault provider.
type storeSource struct {
	store storage.Provider
	path  string
}

func (s storeSource) ReadRaw() ([]byte, error) {
	return s.store.Read(s.path)
}

// parseFrontmatter extracts the YAML frontmatter mapping. Malformed or
// absent frontmatter yields an empty mapping, not an error.
func parseFrontmatter(data []byte, relPath string, logger *slog.Logger) map[string]any {
	var fm map[string]any
	if _, err := frontmatter.Parse(bytes.NewReader(data), &fm); err != nil {
		logger.Warn("discovery: invalid frontmatter",
			slog.String("path", relPath),
			slog.String("error", err.Error()))
		return map[string]any{}
	}
	if fm == nil {
		return map[string]any{}
	}
	return fm
}

// extractTags collects tags from the frontmatter "tags" field, accepting
// both list and single-string forms.
func extractTags(fm map[string]any) []string {
	var tags []string
	switch v := fm["tags"].(type) {
	case []any:
		for _, item := range v {
			tags = append(tags, fmt.Sprint(item))
		}
	case string:
		tags = append(tags, v)
	}
	return tags
}

// dateString preserves a frontmatter date as text. String values pass
// through verbatim; values the YAML decoder already turned into time.Time
// are formatted back, date-only when there is no clock component.
func dateString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05-0700")
	default:
		return fmt.Sprint(v)
	}
}

func stringField(fm map[string]any, key string) string {
	if v, ok := fm[key].(string); ok {
		return v
	}
	return ""
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func intersects(tags []string, set map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func intersection(tags []string, set map[string]struct{}) []string {
	var out []string
	for _, t := range tags {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func joinSet(set map[string]struct{}) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
