// Package filename builds export filenames from a user-editable template.
// The template holds the literal placeholder {name} plus one {param}
// placeholder per selected parameter.
package filename

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/philipparndt/paramexport/internal/param"
)

const illegalChars = "\\/:*?\"<>|\n\r\t"

// Sanitize removes characters illegal in file paths on common filesystems,
// trims surrounding whitespace, and turns inner spaces into underscores so
// the result is a single shell-friendly token.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !strings.ContainsRune(illegalChars, r) {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}

// Build instantiates the template for one (combination, object) pair.
// {name} is replaced with the sanitized object name, then each parameter
// placeholder with the sanitized string form of its value. Substitution runs
// longest-name-first so a parameter named "width" can never eat part of a
// "width2" placeholder.
func Build(template, objectName string, values map[string]param.Value) string {
	out := strings.ReplaceAll(template, "{name}", Sanitize(objectName))

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		out = strings.ReplaceAll(out, "{"+name+"}", Sanitize(values[name].String()))
	}
	return out
}

// ValidateTemplate checks that the template is non-empty, contains {name},
// and contains a placeholder for every selected parameter. A mismatch between
// the template's extension and the chosen format is tolerated.
func ValidateTemplate(template string, selectedNames []string) error {
	if strings.TrimSpace(template) == "" {
		return errors.New("filename template is empty")
	}
	if !strings.Contains(template, "{name}") {
		return errors.New("filename template must include {name}")
	}
	var missing []string
	for _, name := range selectedNames {
		if !strings.Contains(template, "{"+name+"}") {
			missing = append(missing, "{"+name+"}")
		}
	}
	if len(missing) > 0 {
		return errors.Newf("filename template is missing placeholders: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Autogenerate builds the default template for the current selection, e.g.
// "{name}_{width}_{height}.stl". The operator can override it afterwards.
func Autogenerate(selectedNames []string, ext string) string {
	middle := ""
	if len(selectedNames) > 0 {
		placeholders := make([]string, len(selectedNames))
		for i, name := range selectedNames {
			placeholders[i] = "{" + name + "}"
		}
		middle = "_" + strings.Join(placeholders, "_")
	}
	return fmt.Sprintf("{name}%s.%s", middle, ext)
}
