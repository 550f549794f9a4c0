// Package publisher drives a publish run end to end: discover notes, build
// the link index, process every note through the engine, write serialized
// output, copy referenced images, and clean up images that are no longer
// referenced.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/discovery"
	"github.com/starford/ansuz/internal/engine"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/slug"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/transform"
)

// Publisher owns one vault→output pipeline. Build it once and reuse it
// across runs (watch mode republishes with the same Publisher).
type Publisher struct {
	vault   storage.Provider
	out     storage.Provider
	scanner *discovery.Scanner

	renderLink transform.LinkRenderer
	engineOpts []engine.ProcessorOption
	normalize  slug.Func

	contentDir  string
	imageDir    string
	imageExt    string
	concurrency int
	logger      *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithEngineOptions forwards options to the content engine.
func WithEngineOptions(opts ...engine.ProcessorOption) Option {
	return func(p *Publisher) { p.engineOpts = append(p.engineOpts, opts...) }
}

// WithContentDir sets the output subdirectory for published notes.
func WithContentDir(dir string) Option {
	return func(p *Publisher) { p.contentDir = strings.Trim(dir, "/") }
}

// WithImageDir sets the output subdirectory for copied images.
func WithImageDir(dir string) Option {
	return func(p *Publisher) { p.imageDir = strings.Trim(dir, "/") }
}

// WithOutputImageExtension mirrors the engine's extension override. When
// set, image copying and cleanup are skipped: an external image pipeline
// owns the converted files.
func WithOutputImageExtension(ext string) Option {
	return func(p *Publisher) { p.imageExt = ext }
}

// WithConcurrency bounds the number of notes processed in parallel.
func WithConcurrency(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithNormalizer overrides the identifier normaliser used for image file
// names.
func WithNormalizer(fn slug.Func) Option {
	return func(p *Publisher) { p.normalize = fn }
}

// WithLogger sets the publisher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// New builds a Publisher reading from vault and writing under out.
func New(vault, out storage.Provider, scanner *discovery.Scanner, renderLink transform.LinkRenderer, opts ...Option) *Publisher {
	p := &Publisher{
		vault:       vault,
		out:         out,
		scanner:     scanner,
		renderLink:  renderLink,
		normalize:   slug.Default(),
		contentDir:  "posts",
		imageDir:    "images",
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish runs one full publish pass. Notes are processed in parallel;
// per-note failures are recorded in the result rather than aborting the
// run. With dryRun set, nothing is written or deleted but the result still
// reports what would happen.
func (p *Publisher) Publish(ctx context.Context, dryRun bool) (*models.PublishResult, error) {
	notes, err := p.scanner.DiscoverAll()
	if err != nil {
		return nil, err
	}
	idx := engine.BuildIndex(notes)
	proc := engine.NewProcessor(idx, p.renderLink, p.engineOpts...)

	existing, err := p.existingChecksums(p.contentDir)
	if err != nil {
		return nil, err
	}

	result := &models.PublishResult{
		MissingLinks: make(map[string][]string),
		DryRun:       dryRun,
	}
	referenced := make(map[string]struct{})

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, note := range notes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := proc.Process(note)
			if err == nil {
				err = p.writeDocument(doc, existing, dryRun)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, models.PublishFailure{Title: note.Title, Err: err})
				p.logger.Warn("publish: note failed",
					slog.String("title", note.Title),
					slog.String("error", err.Error()))
				return nil
			}
			result.PublishedTitles = append(result.PublishedTitles, note.Title)
			if len(doc.MissingLinks) > 0 {
				result.MissingLinks[note.Title] = doc.MissingLinks
			}
			for _, img := range doc.ReferencedImages {
				referenced[img] = struct{}{}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(result.PublishedTitles)

	if p.imageExt != "" {
		p.logger.Info("publish: image extension override set, leaving image files to the external pipeline",
			slog.String("extension", p.imageExt))
		return result, nil
	}

	published, err := p.copyImages(referenced, dryRun)
	if err != nil {
		return nil, err
	}
	removed, err := p.cleanImages(published, dryRun)
	if err != nil {
		return nil, err
	}
	result.RemovedImages = removed

	return result, nil
}

// writeDocument serializes a processed document and writes it to the
// content directory, skipping the write when the existing file already has
// identical content.
func (p *Publisher) writeDocument(doc *models.ProcessedDocument, existing map[string]string, dryRun bool) error {
	text, err := engine.Serialize(doc)
	if err != nil {
		return err
	}
	rel := path.Join(p.contentDir, doc.Note.Identifier+".md")
	if checksum.Equal(existing[rel], []byte(text)) {
		p.logger.Debug("publish: unchanged", slog.String("path", rel))
		return nil
	}
	if dryRun {
		p.logger.Info("publish: would write", slog.String("path", rel))
		return nil
	}
	if err := p.out.Write(rel, []byte(text)); err != nil {
		return fmt.Errorf("publish: write %s: %w", rel, err)
	}
	p.logger.Debug("publish: wrote", slog.String("path", rel))
	return nil
}

// copyImages copies every referenced image from the vault into the image
// directory under its normalised output name. It returns the set of output
// file names that belong to this run.
func (p *Publisher) copyImages(referenced map[string]struct{}, dryRun bool) (map[string]struct{}, error) {
	published := make(map[string]struct{}, len(referenced))
	if len(referenced) == 0 {
		return published, nil
	}

	byName, err := p.vaultImagesByName()
	if err != nil {
		return nil, err
	}
	existing, err := p.existingChecksums(p.imageDir)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(referenced))
	for t := range referenced {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	for _, target := range targets {
		src := target
		if !p.vault.Exists(src) {
			src = byName[strings.ToLower(path.Base(target))]
		}
		if src == "" {
			p.logger.Warn("publish: referenced image not found in vault", slog.String("image", target))
			continue
		}

		base := path.Base(target)
		ext := strings.ToLower(path.Ext(base))
		name := p.normalize(strings.TrimSuffix(base, path.Ext(base))) + ext
		published[name] = struct{}{}

		data, err := p.vault.Read(src)
		if err != nil {
			return nil, fmt.Errorf("publish: read image %s: %w", src, err)
		}
		rel := path.Join(p.imageDir, name)
		if checksum.Equal(existing[rel], data) {
			continue
		}
		if dryRun {
			p.logger.Info("publish: would copy image", slog.String("from", src), slog.String("to", rel))
			continue
		}
		if err := p.out.Write(rel, data); err != nil {
			return nil, fmt.Errorf("publish: copy image %s: %w", src, err)
		}
		p.logger.Debug("publish: copied image", slog.String("from", src), slog.String("to", rel))
	}
	return published, nil
}

// cleanImages removes files in the image directory that no published note
// references any more.
func (p *Publisher) cleanImages(published map[string]struct{}, dryRun bool) ([]string, error) {
	if !p.out.Exists(p.imageDir) {
		return nil, nil
	}
	infos, err := p.out.List(p.imageDir)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, info := range infos {
		name := path.Base(info.Path)
		if _, ok := published[name]; ok {
			continue
		}
		removed = append(removed, info.Path)
		if dryRun {
			p.logger.Info("publish: would remove stale image", slog.String("path", info.Path))
			continue
		}
		if err := p.out.Delete(info.Path); err != nil {
			return nil, fmt.Errorf("publish: remove stale image %s: %w", info.Path, err)
		}
		p.logger.Debug("publish: removed stale image", slog.String("path", info.Path))
	}
	sort.Strings(removed)
	return removed, nil
}

// vaultImagesByName indexes every image file in the vault by lower-cased
// base name so unqualified embed targets can be located. On duplicate base
// names the first hit in walk order wins.
func (p *Publisher) vaultImagesByName() (map[string]string, error) {
	infos, err := p.vault.List("", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg")
	if err != nil {
		return nil, fmt.Errorf("publish: list vault images: %w", err)
	}
	byName := make(map[string]string, len(infos))
	for _, info := range infos {
		key := strings.ToLower(path.Base(info.Path))
		if _, ok := byName[key]; !ok {
			byName[key] = info.Path
		}
	}
	return byName, nil
}

// existingChecksums maps output-relative paths to content checksums for an
// output subdirectory, tolerating the directory not existing yet.
func (p *Publisher) existingChecksums(dir string) (map[string]string, error) {
	out := make(map[string]string)
	if !p.out.Exists(dir) {
		return out, nil
	}
	infos, err := p.out.List(dir)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		// List paths are already relative to the output root.
		out[info.Path] = info.Checksum
	}
	return out, nil
}
