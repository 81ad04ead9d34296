// Package textclean implements the configurable post-processing transform
// applied to recognized text before it is inserted into a daily note.
package textclean

import (
	"regexp"
	"strings"
)

// Transform cleans one page's raw recognized text.
type Transform func(string) string

// Options selects which cleanup steps are applied.
type Options struct {
	// Trim strips leading and trailing whitespace from every line.
	Trim bool `yaml:"trim"`
	// CollapseSpaces collapses runs of spaces and tabs into a single space.
	CollapseSpaces bool `yaml:"collapse_spaces"`
}

var spaceRunRe = regexp.MustCompile(`[ \t]+`)

// New returns a Transform for the given options. With no options enabled the
// transform is the identity function.
func New(opts Options) Transform {
	return func(raw string) string {
		if !opts.Trim && !opts.CollapseSpaces {
			return raw
		}
		lines := strings.Split(raw, "\n")
		for i, line := range lines {
			if opts.CollapseSpaces {
				line = spaceRunRe.ReplaceAllString(line, " ")
			}
			if opts.Trim {
				line = strings.TrimSpace(line)
			}
			lines[i] = line
		}
		return strings.Join(lines, "\n")
	}
}
