package engine

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Index maps note titles to their output identifiers and back. It is built
// once per publish run and read-only afterwards, so lookups are safe from
// concurrent goroutines.
//
// Title lookups fold case; identifier lookups do not. Duplicate titles are
// resolved last-write-wins: the later note in the input sequence claims the
// title. That tie-break is deterministic and deliberate, not an error.
type Index struct {
	titleToID map[string]string
	idToTitle map[string]string
}

// BuildIndex constructs an Index from discovered notes.
func BuildIndex(notes []*models.RawNote) *Index {
	idx := &Index{
		titleToID: make(map[string]string, len(notes)),
		idToTitle: make(map[string]string, len(notes)),
	}
	for _, n := range notes {
		idx.titleToID[strings.ToLower(n.Title)] = n.Identifier
		idx.idToTitle[n.Identifier] = n.Title
	}
	return idx
}

// IndexFromMap constructs an Index from an externally supplied
// title→identifier mapping.
func IndexFromMap(titleToID map[string]string) *Index {
	idx := &Index{
		titleToID: make(map[string]string, len(titleToID)),
		idToTitle: make(map[string]string, len(titleToID)),
	}
	for title, id := range titleToID {
		idx.titleToID[strings.ToLower(title)] = id
		idx.idToTitle[id] = title
	}
	return idx
}

// Identifier returns the identifier registered for title, matching
// case-insensitively. A miss is a normal outcome, reported via ok.
func (idx *Index) Identifier(title string) (string, bool) {
	id, ok := idx.titleToID[strings.ToLower(title)]
	return id, ok
}

// Title returns the title registered for an identifier (exact match).
func (idx *Index) Title(id string) (string, bool) {
	title, ok := idx.idToTitle[id]
	return title, ok
}

// Len reports how many identifiers the index holds.
func (idx *Index) Len() int {
	return len(idx.idToTitle)
}
