package matrix

import (
	"regexp"

	"github.com/lattice-ci/lattice/internal/errors"
)

// placeholderRe matches {axisName} placeholders in command templates.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

// RenderCommand substitutes every {axisName} placeholder in the
// template with the assignment's chosen value. Substitution is literal;
// no escaping or nested expansion is performed. A placeholder that
// names an axis not present in the assignment is a configuration error.
func RenderCommand(template string, assignment map[string]string) (string, error) {
	var renderErr error

	rendered := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := assignment[name]
		if !ok {
			if renderErr == nil {
				renderErr = errors.Wrapf(errors.ErrTemplatePlaceholder,
					"template references axis %q", name)
			}
			return match
		}
		return value
	})
	if renderErr != nil {
		return "", renderErr
	}

	return rendered, nil
}
