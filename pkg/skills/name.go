package skills

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// MaxNameLength is the longest accepted skill name
const MaxNameLength = 64

var kebabCasePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var (
	// ErrNameEmpty is returned for an empty name
	ErrNameEmpty = errors.New("name cannot be empty")
	// ErrNameTooLong is returned for names above MaxNameLength
	ErrNameTooLong = errors.New("name is too long")
	// ErrNameNotKebabCase is returned for names outside [a-z0-9-]
	ErrNameNotKebabCase = errors.New("name must be kebab-case (lowercase letters, digits and hyphens)")
	// ErrNameEdgeHyphen is returned for names starting or ending with a hyphen
	ErrNameEdgeHyphen = errors.New("name cannot start or end with a hyphen")
	// ErrNameDoubleHyphen is returned for names containing consecutive hyphens
	ErrNameDoubleHyphen = errors.New("name cannot contain consecutive hyphens")
)

// ValidateName checks a skill name against the kebab-case rules and returns
// an error naming the first violated rule.
func ValidateName(name string) error {
	switch {
	case name == "":
		return ErrNameEmpty
	case len(name) > MaxNameLength:
		return errors.Wrapf(ErrNameTooLong, "%d characters, maximum %d", len(name), MaxNameLength)
	case !kebabCasePattern.MatchString(name):
		return errors.Wrapf(ErrNameNotKebabCase, "%q", name)
	case strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-"):
		return errors.Wrapf(ErrNameEdgeHyphen, "%q", name)
	case strings.Contains(name, "--"):
		return errors.Wrapf(ErrNameDoubleHyphen, "%q", name)
	}
	return nil
}

// TitleFromName converts a kebab-case name into a space separated title
func TitleFromName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
