package types

import (
	"regexp"

	"github.com/arthur-debert/dotty/pkg/errors"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateName checks a repository or profile name. Names double as
// directory names under the dotty root, so "." and ".." are refused too.
func ValidateName(kind, name string) error {
	if !namePattern.MatchString(name) || name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidName, "invalid %s name %q: only letters, digits, '.', '_' and '-' are allowed", kind, name).
			WithDetail("name", name)
	}
	return nil
}
