// Package transform defines the three strategy seams that shape the output
// dialect: how wikilinks render, how tag lists are rewritten, and how
// frontmatter is rebuilt. Strategies are pure functions produced by small
// factories; the engine composes them without knowing which site generator
// they target.
package transform

import "github.com/starford/ansuz/internal/models"

// LinkRenderer turns a display text and a resolved identifier into rendered
// Markdown. The identifier must appear at an anchor-appendable position in
// the result (see AppendFragment).
type LinkRenderer func(display, identifier string) string

// TagRewriter maps a note's original tag list to its published tag list.
// Implementations must not mutate the input slice.
type TagRewriter func(tags []string) []string

// FrontmatterRewriter rebuilds a note's frontmatter. It receives a copy of
// the original mapping and the processed document, whose Tags field already
// reflects the tag rewrite, and returns a full replacement mapping.
type FrontmatterRewriter func(fm map[string]any, doc *models.ProcessedDocument) map[string]any
