package transform

import (
	"fmt"
	"strings"
)

// RelativeLinks renders plain relative Markdown links: [display](id.md).
func RelativeLinks() LinkRenderer {
	return func(display, identifier string) string {
		return fmt.Sprintf("[%s](%s.md)", display, identifier)
	}
}

// AbsoluteLinks renders site-absolute links under prefix:
// [display](/prefix/id). An empty prefix yields [display](/id).
func AbsoluteLinks(prefix string) LinkRenderer {
	prefix = strings.Trim(prefix, "/")
	return func(display, identifier string) string {
		if prefix == "" {
			return fmt.Sprintf("[%s](/%s)", display, identifier)
		}
		return fmt.Sprintf("[%s](/%s/%s)", display, prefix, identifier)
	}
}

// HugoRefLinks renders Hugo ref shortcodes:
// [display]({{< ref "id" >}}).
func HugoRefLinks() LinkRenderer {
	return func(display, identifier string) string {
		return fmt.Sprintf("[%s]({{< ref %q >}})", display, identifier)
	}
}

// AppendFragment attaches a #fragment anchor to rendered link markup.
// Renderers differ in shape, so the insertion point is located rather than
// assumed: the fragment goes immediately before the final closing
// parenthesis when one exists, otherwise at the end.
func AppendFragment(rendered, fragment string) string {
	if fragment == "" {
		return rendered
	}
	if i := strings.LastIndexByte(rendered, ')'); i >= 0 {
		return rendered[:i] + "#" + fragment + rendered[i:]
	}
	return rendered + "#" + fragment
}
