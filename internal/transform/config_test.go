package transform

import (
	"reflect"
	"testing"
)

func TestLinksConfig_Renderer(t *testing.T) {
	tests := []struct {
		name string
		cfg  LinksConfig
		want string
	}{
		{"relative", LinksConfig{Style: LinkStyleRelative}, "[D](id.md)"},
		{"absolute", LinksConfig{Style: LinkStyleAbsolute, Prefix: "posts"}, "[D](/posts/id)"},
		{"hugo", LinksConfig{Style: LinkStyleHugoRef}, `[D]({{< ref "id" >}})`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.cfg.Renderer()
			if err != nil {
				t.Fatalf("Renderer: %v", err)
			}
			if got := r("D", "id"); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLinksConfig_Invalid(t *testing.T) {
	if _, err := (LinksConfig{Style: "nonsense"}).Renderer(); err == nil {
		t.Error("expected error for unknown style")
	}
	if _, err := (LinksConfig{}).Renderer(); err == nil {
		t.Error("expected error for missing style")
	}
	if _, err := (LinksConfig{Style: LinkStyleCustom}).Renderer(); err == nil {
		t.Error("expected error for custom style without renderer")
	}
}

func TestLinksConfig_Custom(t *testing.T) {
	cfg := LinksConfig{
		Style:  LinkStyleCustom,
		Custom: func(display, id string) string { return display + "!" + id },
	}
	r, err := cfg.Renderer()
	if err != nil {
		t.Fatalf("Renderer: %v", err)
	}
	if got := r("a", "b"); got != "a!b" {
		t.Errorf("got %q", got)
	}
}

func TestTagsConfig_EmptyIsNil(t *testing.T) {
	r, err := (TagsConfig{}).Rewriter()
	if err != nil {
		t.Fatalf("Rewriter: %v", err)
	}
	if r != nil {
		t.Error("expected nil rewriter for empty pipeline")
	}
}

func TestTagsConfig_Pipeline(t *testing.T) {
	cfg := TagsConfig{Rules: []TagRule{
		{Op: TagOpFilterPrefix, Prefixes: []string{"domain/"}},
		{Op: TagOpReplaceSeparator, Old: "/", New: "-"},
		{Op: TagOpSort},
	}}
	r, err := cfg.Rewriter()
	if err != nil {
		t.Fatalf("Rewriter: %v", err)
	}
	got := r([]string{"domain/z", "skip", "domain/a"})
	want := []string{"domain-a", "domain-z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTagsConfig_InvalidRule(t *testing.T) {
	tests := []struct {
		name string
		rule TagRule
	}{
		{"unknown op", TagRule{Op: "explode"}},
		{"filter without prefixes", TagRule{Op: TagOpFilterPrefix}},
		{"replace without old", TagRule{Op: TagOpReplaceSeparator, New: "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TagsConfig{Rules: []TagRule{tt.rule}}
			if _, err := cfg.Rewriter(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFrontmatterConfig_EmptyIsNil(t *testing.T) {
	r, err := (FrontmatterConfig{}).Rewriter()
	if err != nil {
		t.Fatalf("Rewriter: %v", err)
	}
	if r != nil {
		t.Error("expected nil rewriter for empty mode")
	}
}

func TestFrontmatterConfig_KeepRemoveConflict(t *testing.T) {
	cfg := FrontmatterConfig{
		Mode:   FrontmatterModePrune,
		Keep:   []string{"title"},
		Remove: []string{"draft"},
	}
	if _, err := cfg.Rewriter(); err == nil {
		t.Error("expected error when both keep and remove are set")
	}
}

func TestFrontmatterConfig_Modes(t *testing.T) {
	r, err := (FrontmatterConfig{Mode: FrontmatterModePrune, Keep: []string{"title"}}).Rewriter()
	if err != nil {
		t.Fatalf("Rewriter: %v", err)
	}
	got := r(map[string]any{"title": "T", "x": 1}, sampleDoc())
	if !reflect.DeepEqual(got, map[string]any{"title": "T"}) {
		t.Errorf("got %v", got)
	}

	if _, err := (FrontmatterConfig{Mode: "bogus"}).Rewriter(); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := (FrontmatterConfig{Mode: FrontmatterModeCustom}).Rewriter(); err == nil {
		t.Error("expected error for custom mode without rewriter")
	}
}
