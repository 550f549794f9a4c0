package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/ansuz/internal/models"
)

// IdentityFrontmatter copies the original frontmatter through unchanged.
func IdentityFrontmatter() FrontmatterRewriter {
	return func(fm map[string]any, _ *models.ProcessedDocument) map[string]any {
		return copyMap(fm)
	}
}

// PruneAndAdd keeps only the keep keys when given, otherwise drops the
// remove keys, then merges add on top. Keep wins when both lists are set;
// FrontmatterConfig.Validate rejects that combination up front, so the
// precedence here only matters for direct programmatic use.
func PruneAndAdd(keep, remove []string, add map[string]any) FrontmatterRewriter {
	keepSet := toSet(keep)
	removeSet := toSet(remove)
	return func(fm map[string]any, _ *models.ProcessedDocument) map[string]any {
		out := make(map[string]any, len(fm)+len(add))
		switch {
		case keep != nil:
			for k, v := range fm {
				if _, ok := keepSet[k]; ok {
					out[k] = v
				}
			}
		case remove != nil:
			for k, v := range fm {
				if _, ok := removeSet[k]; !ok {
					out[k] = v
				}
			}
		default:
			for k, v := range fm {
				out[k] = v
			}
		}
		for k, v := range add {
			out[k] = v
		}
		return out
	}
}

var titleCaser = cases.Title(language.English)

// HugoFrontmatter derives the canonical Hugo shape: a title-cased title,
// publication and creation dates carried through verbatim, an optional
// author, and the rewritten tag list only when non-empty.
func HugoFrontmatter(author string) FrontmatterRewriter {
	return func(_ map[string]any, doc *models.ProcessedDocument) map[string]any {
		note := doc.Note
		// Semicolons in titles break YAML scalars once emitted inline.
		title := strings.ReplaceAll(titleCaser.String(note.Title), ";", ":")
		out := map[string]any{
			"title": title,
			"date":  note.PublicationDate,
			"doc":   note.CreationDate,
		}
		if author != "" {
			out["author"] = author
		}
		if len(doc.Tags) > 0 {
			out["tags"] = append([]string(nil), doc.Tags...)
		}
		return out
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toSet(keys []string) map[string]struct{} {
	s := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}
