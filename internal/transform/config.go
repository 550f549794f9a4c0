package transform

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Link styles.
const (
	LinkStyleRelative = "relative"
	LinkStyleAbsolute = "absolute"
	LinkStyleHugoRef  = "hugo-ref"
	LinkStyleCustom   = "custom"
)

// Tag rule operations.
const (
	TagOpFilterPrefix     = "filter-prefix"
	TagOpReplaceSeparator = "replace-separator"
	TagOpSort             = "sort"
)

// Frontmatter modes.
const (
	FrontmatterModeIdentity = "identity"
	FrontmatterModePrune    = "prune"
	FrontmatterModeHugo     = "hugo"
	FrontmatterModeCustom   = "custom"
)

// LinksConfig selects a link renderer from the closed set of named styles.
// Custom is the programmatic escape hatch; it is required when Style is
// "custom" and ignored otherwise.
type LinksConfig struct {
	Style  string `yaml:"style"`
	Prefix string `yaml:"prefix"`

	Custom LinkRenderer `yaml:"-"`
}

// Validate checks the link configuration.
func (c LinksConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Style, validation.Required,
			validation.In(LinkStyleRelative, LinkStyleAbsolute, LinkStyleHugoRef, LinkStyleCustom)),
	); err != nil {
		return err
	}
	if c.Style == LinkStyleCustom && c.Custom == nil {
		return fmt.Errorf("links: style is %q but no custom renderer was supplied", LinkStyleCustom)
	}
	return nil
}

// Renderer builds the configured LinkRenderer, failing fast on invalid
// configuration.
func (c LinksConfig) Renderer() (LinkRenderer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Style {
	case LinkStyleAbsolute:
		return AbsoluteLinks(c.Prefix), nil
	case LinkStyleHugoRef:
		return HugoRefLinks(), nil
	case LinkStyleCustom:
		return c.Custom, nil
	default:
		return RelativeLinks(), nil
	}
}

// TagRule is one step of a tag-rewriting pipeline.
type TagRule struct {
	Op       string   `yaml:"op"`
	Prefixes []string `yaml:"prefixes"`
	Old      string   `yaml:"old"`
	New      string   `yaml:"new"`
}

// Validate checks a single tag rule.
func (r TagRule) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Op, validation.Required,
			validation.In(TagOpFilterPrefix, TagOpReplaceSeparator, TagOpSort)),
	); err != nil {
		return err
	}
	switch r.Op {
	case TagOpFilterPrefix:
		if len(r.Prefixes) == 0 {
			return fmt.Errorf("tags: %s rule needs at least one prefix", TagOpFilterPrefix)
		}
	case TagOpReplaceSeparator:
		if r.Old == "" {
			return fmt.Errorf("tags: %s rule needs a non-empty old separator", TagOpReplaceSeparator)
		}
	}
	return nil
}

// TagsConfig describes an ordered tag-rewriting pipeline. Rules apply in
// sequence; Custom, when set, runs after the named rules.
type TagsConfig struct {
	Rules []TagRule `yaml:"rules"`

	Custom TagRewriter `yaml:"-"`
}

// Validate checks every rule in the pipeline.
func (c TagsConfig) Validate() error {
	for i, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("tags: rule %d: %w", i, err)
		}
	}
	return nil
}

// Rewriter compiles the pipeline into a single TagRewriter. It returns nil
// when nothing is configured, which the engine treats as pass-through.
func (c TagsConfig) Rewriter() (TagRewriter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.Rules) == 0 && c.Custom == nil {
		return nil, nil
	}
	rewriters := make([]TagRewriter, 0, len(c.Rules)+1)
	for _, r := range c.Rules {
		switch r.Op {
		case TagOpFilterPrefix:
			rewriters = append(rewriters, FilterByPrefix(r.Prefixes...))
		case TagOpReplaceSeparator:
			rewriters = append(rewriters, ReplaceSeparator(r.Old, r.New))
		case TagOpSort:
			rewriters = append(rewriters, SortedTags())
		}
	}
	if c.Custom != nil {
		rewriters = append(rewriters, c.Custom)
	}
	return ComposeTags(rewriters...), nil
}

// FrontmatterConfig selects a frontmatter rewriter. An empty Mode means no
// rewrite: the engine copies the original mapping through.
type FrontmatterConfig struct {
	Mode   string         `yaml:"mode"`
	Keep   []string       `yaml:"keep"`
	Remove []string       `yaml:"remove"`
	Add    map[string]any `yaml:"add"`
	Author string         `yaml:"author"`

	Custom FrontmatterRewriter `yaml:"-"`
}

// Validate checks the frontmatter configuration. Keep and Remove are
// mutually exclusive; supplying both is a configuration error caught here
// rather than surfacing per document.
func (c FrontmatterConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Mode,
			validation.In(FrontmatterModeIdentity, FrontmatterModePrune, FrontmatterModeHugo, FrontmatterModeCustom)),
	); err != nil {
		return err
	}
	if c.Mode == FrontmatterModePrune && len(c.Keep) > 0 && len(c.Remove) > 0 {
		return fmt.Errorf("frontmatter: keep and remove are mutually exclusive")
	}
	if c.Mode == FrontmatterModeCustom && c.Custom == nil {
		return fmt.Errorf("frontmatter: mode is %q but no custom rewriter was supplied", FrontmatterModeCustom)
	}
	return nil
}

// Rewriter builds the configured FrontmatterRewriter. It returns nil when
// Mode is empty, which the engine treats as pass-through.
func (c FrontmatterConfig) Rewriter() (FrontmatterRewriter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Mode {
	case FrontmatterModeIdentity:
		return IdentityFrontmatter(), nil
	case FrontmatterModePrune:
		return PruneAndAdd(c.Keep, c.Remove, c.Add), nil
	case FrontmatterModeHugo:
		return HugoFrontmatter(c.Author), nil
	case FrontmatterModeCustom:
		return c.Custom, nil
	default:
		return nil, nil
	}
}
