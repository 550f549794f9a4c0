// Package engine rewrites note body text for publishing: image embeds and
// wikilinks become output-dialect Markdown, tags and frontmatter are passed
// through the configured strategies, and diagnostics (missing links,
// referenced images) are collected along the way.
//
// The engine performs no I/O beyond reading a note's content through its
// Source, holds no mutable state between calls, and never fails on
// malformed syntax; degenerate input degrades to a best-effort rewrite.
package engine

import (
	"fmt"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/slug"
	"github.com/starford/ansuz/internal/transform"
)

// Processor transforms raw notes into processed documents. Configure it
// once per publish run; Process is safe to call concurrently on different
// notes because the index is read-only and all strategies are pure.
type Processor struct {
	index          *Index
	renderLink     transform.LinkRenderer
	rewriteTags    transform.TagRewriter
	rewriteFM      transform.FrontmatterRewriter
	normalize      slug.Func
	imagePrefix    string
	warnMissing    bool
	outputImageExt string
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithTagRewriter sets the tag-rewriting strategy. Without one the original
// tag list passes through unchanged.
func WithTagRewriter(r transform.TagRewriter) ProcessorOption {
	return func(p *Processor) { p.rewriteTags = r }
}

// WithFrontmatterRewriter sets the frontmatter-rewriting strategy. Without
// one the original frontmatter mapping is copied through.
func WithFrontmatterRewriter(r transform.FrontmatterRewriter) ProcessorOption {
	return func(p *Processor) { p.rewriteFM = r }
}

// WithImagePathPrefix sets the URL prefix for rewritten image references
// (default "/images").
func WithImagePathPrefix(prefix string) ProcessorOption {
	return func(p *Processor) { p.imagePrefix = prefix }
}

// WithMissingLinkWarnings toggles missing-link tracking (default on). The
// rewritten link is produced either way; this only controls the diagnostic
// list.
func WithMissingLinkWarnings(on bool) ProcessorOption {
	return func(p *Processor) { p.warnMissing = on }
}

// WithOutputImageExtension forces every rewritten image reference to the
// given extension (e.g. ".webp"). Empty keeps each image's own extension.
func WithOutputImageExtension(ext string) ProcessorOption {
	return func(p *Processor) { p.outputImageExt = ext }
}

// WithNormalizer overrides the identifier normaliser.
func WithNormalizer(fn slug.Func) ProcessorOption {
	return func(p *Processor) { p.normalize = fn }
}

// NewProcessor builds a Processor over the given link index and link
// renderer.
func NewProcessor(index *Index, renderLink transform.LinkRenderer, opts ...ProcessorOption) *Processor {
	p := &Processor{
		index:       index,
		renderLink:  renderLink,
		normalize:   slug.Default(),
		imagePrefix: "/images",
		warnMissing: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.imagePrefix = strings.TrimRight(p.imagePrefix, "/")
	if p.outputImageExt != "" && !strings.HasPrefix(p.outputImageExt, ".") {
		p.outputImageExt = "." + p.outputImageExt
	}
	return p
}

// Process reads the note's content and rewrites it for publishing. The
// rewrite order is load-bearing: frontmatter is stripped first, image
// embeds are claimed before wikilinks (embed syntax is a superset of link
// syntax), tags are rewritten before frontmatter so the frontmatter
// strategy sees the final tag list.
//
// The only error Process returns is a content read failure; everything
// else degrades to best-effort output plus diagnostics.
func (p *Processor) Process(note *models.RawNote) (*models.ProcessedDocument, error) {
	raw, err := note.Source.ReadRaw()
	if err != nil {
		return nil, fmt.Errorf("engine: read %s: %w", note.Path, err)
	}

	body := stripFrontmatter(string(raw))
	body, images := p.rewriteImageEmbeds(body)
	body, missing := p.rewriteWikilinks(body)

	doc := &models.ProcessedDocument{
		Note:             note,
		Content:          body,
		ReferencedImages: images,
		MissingLinks:     missing,
	}

	doc.Tags = append([]string(nil), note.Tags...)
	if p.rewriteTags != nil {
		doc.Tags = p.rewriteTags(note.Tags)
	}

	doc.Frontmatter = copyFrontmatter(note.Frontmatter)
	if p.rewriteFM != nil {
		doc.Frontmatter = p.rewriteFM(copyFrontmatter(note.Frontmatter), doc)
	}

	return doc, nil
}

// stripFrontmatter drops a leading ----delimited block. When the delimiter
// is absent or unterminated the whole text is body; lenient by design.
func stripFrontmatter(text string) string {
	if !strings.HasPrefix(text, "---") {
		return text
	}
	parts := strings.SplitN(text, "---\n", 3)
	if len(parts) == 3 {
		return parts[2]
	}
	return text
}

// rewriteImageEmbeds rewrites ![[image.ext]] and ![[image.ext|alt]] embeds
// and collects the referenced image targets (original casing, deduplicated).
// Embeds whose target is not a supported image are left for the wikilink
// pass, which handles the [[...]] portion.
func (p *Processor) rewriteImageEmbeds(body string) (string, []string) {
	var images []string
	seen := make(map[string]struct{})
	var b strings.Builder
	i := 0
	for {
		j := strings.Index(body[i:], "![[")
		if j < 0 {
			break
		}
		j += i
		target, alt, hasAlt, end, ok := scanBrackets(body, j+1)
		if !ok {
			b.WriteString(body[i : j+3])
			i = j + 3
			continue
		}
		target = strings.TrimSpace(target)
		if _, isImage := imageExtension(target); !isImage {
			b.WriteString(body[i : j+1])
			i = j + 1
			continue
		}
		b.WriteString(body[i:j])
		if !hasAlt || alt == "" {
			alt = stem(target)
		}
		b.WriteString(p.renderImage(target, alt))
		if _, dup := seen[target]; !dup {
			seen[target] = struct{}{}
			images = append(images, target)
		}
		i = end
	}
	b.WriteString(body[i:])
	return b.String(), images
}

// rewriteWikilinks rewrites [[target]], [[target|display]], and
// [[target#section]] links, tracking unresolved targets.
func (p *Processor) rewriteWikilinks(body string) (string, []string) {
	var missing []string
	var b strings.Builder
	i := 0
	for {
		j := strings.Index(body[i:], "[[")
		if j < 0 {
			break
		}
		j += i
		target, display, hasDisplay, end, ok := scanBrackets(body, j)
		if !ok {
			b.WriteString(body[i : j+2])
			i = j + 2
			continue
		}
		b.WriteString(body[i:j])
		rendered, miss := p.renderWikilink(target, display, hasDisplay)
		if miss != "" {
			missing = append(missing, miss)
		}
		b.WriteString(rendered)
		i = end
	}
	b.WriteString(body[i:])
	return b.String(), missing
}

// renderWikilink produces the replacement markup for one wikilink and, when
// the target does not resolve, the missing-link entry (original casing).
func (p *Processor) renderWikilink(target, display string, hasDisplay bool) (rendered, missing string) {
	target = strings.TrimSpace(target)

	noteTarget, section := target, ""
	if k := strings.Index(target, "#"); k >= 0 {
		noteTarget = strings.TrimSpace(target[:k])
		section = target[k+1:]
	}

	// Authors sometimes link an image without the embed marker; treat it as
	// an embed so it still displays.
	if _, isImage := imageExtension(noteTarget); isImage {
		alt := display
		if !hasDisplay || alt == "" {
			alt = stem(noteTarget)
		}
		return p.renderImage(noteTarget, alt), ""
	}

	id, found := p.index.Identifier(noteTarget)
	if !found {
		id = p.normalize(noteTarget)
		if p.warnMissing && noteTarget != "" {
			missing = noteTarget
		}
	}

	text := noteTarget
	if hasDisplay && display != "" {
		text = display
	}
	rendered = p.renderLink(text, id)
	if section != "" {
		rendered = transform.AppendFragment(rendered, p.normalize(section))
	}
	return rendered, missing
}

// renderImage produces the replacement markup for one image reference. The
// target's base name and the alt text are normalised independently; the
// extension is the configured override or the original lower-cased.
func (p *Processor) renderImage(target, alt string) string {
	ext := p.outputImageExt
	if ext == "" {
		orig, _ := imageExtension(target)
		ext = strings.ToLower(orig)
	}
	return fmt.Sprintf("![%s](%s/%s%s)", p.normalize(alt), p.imagePrefix, p.normalize(stem(target)), ext)
}

// scanBrackets parses a [[target]] or [[target|tail]] form starting at the
// opening brackets. The target may not contain ']', '|', or a newline; the
// tail (display text or alt text) runs to the first closing "]]" and may
// contain either. A hand-written scan is used instead of one large pattern
// because the two halves obey different character rules.
func scanBrackets(s string, start int) (target, tail string, hasTail bool, end int, ok bool) {
	i := start + 2
	for i < len(s) {
		switch s[i] {
		case ']':
			if i+1 < len(s) && s[i+1] == ']' {
				return s[start+2 : i], "", false, i + 2, true
			}
			return "", "", false, 0, false
		case '|':
			j := strings.Index(s[i+1:], "]]")
			if j < 0 {
				return "", "", false, 0, false
			}
			return s[start+2 : i], s[i+1 : i+1+j], true, i + 1 + j + 2, true
		case '\n':
			return "", "", false, 0, false
		}
		i++
	}
	return "", "", false, 0, false
}

// imageExtension returns the target's extension (original casing) when it
// is one of the supported image types.
func imageExtension(target string) (string, bool) {
	ext := path.Ext(target)
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return ext, true
	}
	return "", false
}

// stem returns the base name of a target without its extension.
func stem(target string) string {
	base := path.Base(target)
	return strings.TrimSuffix(base, path.Ext(base))
}

func copyFrontmatter(fm map[string]any) map[string]any {
	out := make(map[string]any, len(fm))
	for k, v := range fm {
		out[k] = v
	}
	return out
}
