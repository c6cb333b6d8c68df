package core

import (
	"strconv"
	"strings"

	"github.com/huandu/xstrings"
)

// ComponentName turns a namespaced class name such as "Foo::Bar" into the
// identifier used for its template and DOM id ("foo_bar").
func ComponentName(className string) string {
	name := strings.ReplaceAll(strings.TrimSpace(className), "::", "_")
	return xstrings.ToSnakeCase(name)
}

// ResolveHeight parses the optional height parameter. Empty and zero fall
// back to def.
func ResolveHeight(raw string, def int) (int, error) {
	if def <= 0 {
		def = DefaultHeight
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	h, err := strconv.Atoi(raw)
	if err != nil || h < 0 {
		return 0, ErrInvalidHeight
	}
	if h == 0 {
		return def, nil
	}
	return h, nil
}
