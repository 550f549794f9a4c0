package transform

import (
	"reflect"
	"testing"
)

func TestIdentityTags(t *testing.T) {
	in := []string{"b", "a"}
	out := IdentityTags()(in)
	if !reflect.DeepEqual(out, in) {
		t.Errorf("got %v", out)
	}
	out[0] = "mutated"
	if in[0] != "b" {
		t.Error("input slice was mutated")
	}
}

func TestFilterByPrefix(t *testing.T) {
	r := FilterByPrefix("domain/", "status/")
	in := []string{"domain/cs", "project/x", "status/done", "misc"}
	want := []string{"domain/cs", "status/done"}
	if got := r(in); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterByPrefix_NoMatches(t *testing.T) {
	r := FilterByPrefix("nope/")
	if got := r([]string{"a", "b"}); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestReplaceSeparator(t *testing.T) {
	r := ReplaceSeparator("/", "-")
	in := []string{"domain/cs/theory", "plain"}
	want := []string{"domain-cs-theory", "plain"}
	if got := r(in); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortedTags(t *testing.T) {
	in := []string{"c", "a", "b"}
	want := []string{"a", "b", "c"}
	if got := SortedTags()(in); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if in[0] != "c" {
		t.Error("input slice was mutated")
	}
}

func TestComposeTags(t *testing.T) {
	r := ComposeTags(
		FilterByPrefix("domain/"),
		ReplaceSeparator("/", "-"),
		SortedTags(),
	)
	in := []string{"domain/z", "other", "domain/a"}
	want := []string{"domain-a", "domain-z"}
	if got := r(in); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComposeTags_Empty(t *testing.T) {
	in := []string{"a", "b"}
	if got := ComposeTags()(in); !reflect.DeepEqual(got, in) {
		t.Errorf("got %v", got)
	}
}
