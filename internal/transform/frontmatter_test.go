package transform

import (
	"reflect"
	"testing"

	"github.com/starford/ansuz/internal/models"
)

func sampleDoc() *models.ProcessedDocument {
	return &models.ProcessedDocument{
		Note: &models.RawNote{
			Title:           "my note; part two",
			CreationDate:    "2024-01-01 00:00:00+0000",
			PublicationDate: "2024-01-15 00:00:00+0000",
		},
		Tags: []string{"go", "publishing"},
	}
}

func TestIdentityFrontmatter(t *testing.T) {
	in := map[string]any{"a": 1, "b": "two"}
	out := IdentityFrontmatter()(in, sampleDoc())
	if !reflect.DeepEqual(out, in) {
		t.Errorf("got %v", out)
	}
	out["a"] = 99
	if in["a"] != 1 {
		t.Error("input map was mutated")
	}
}

func TestPruneAndAdd_Keep(t *testing.T) {
	r := PruneAndAdd([]string{"title", "date"}, nil, map[string]any{"layout": "post"})
	in := map[string]any{"title": "T", "date": "D", "secret": "S"}
	want := map[string]any{"title": "T", "date": "D", "layout": "post"}
	if got := r(in, sampleDoc()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPruneAndAdd_Remove(t *testing.T) {
	r := PruneAndAdd(nil, []string{"secret"}, nil)
	in := map[string]any{"title": "T", "secret": "S"}
	want := map[string]any{"title": "T"}
	if got := r(in, sampleDoc()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPruneAndAdd_AddOverwrites(t *testing.T) {
	r := PruneAndAdd(nil, nil, map[string]any{"title": "Replaced"})
	in := map[string]any{"title": "Original"}
	got := r(in, sampleDoc())
	if got["title"] != "Replaced" {
		t.Errorf("title = %v", got["title"])
	}
}

func TestHugoFrontmatter(t *testing.T) {
	r := HugoFrontmatter("The Author")
	got := r(map[string]any{"ignored": true}, sampleDoc())

	want := map[string]any{
		"title":  "My Note: Part Two",
		"date":   "2024-01-15 00:00:00+0000",
		"doc":    "2024-01-01 00:00:00+0000",
		"author": "The Author",
		"tags":   []string{"go", "publishing"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHugoFrontmatter_NoAuthorNoTags(t *testing.T) {
	doc := sampleDoc()
	doc.Tags = nil
	got := HugoFrontmatter("")(nil, doc)
	if _, ok := got["author"]; ok {
		t.Error("author should be absent")
	}
	if _, ok := got["tags"]; ok {
		t.Error("tags should be absent")
	}
}
