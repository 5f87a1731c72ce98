package valueobjects

import (
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const maxIdentifierLength = 50

// Resource names the thing a permission protects, e.g. "tenant" or "metric".
type Resource string

func NewResource(resource string) (Resource, error) {
	if resource == "" {
		return "", fmt.Errorf("resource cannot be empty")
	}
	if len(resource) > maxIdentifierLength {
		return "", fmt.Errorf("resource too long (max %d characters)", maxIdentifierLength)
	}
	if !identifierPattern.MatchString(resource) {
		return "", fmt.Errorf("invalid resource %q: use lowercase letters, digits and underscores", resource)
	}
	return Resource(resource), nil
}

func (r Resource) String() string {
	return string(r)
}

func (r Resource) Equals(other Resource) bool {
	return r == other
}

// IsIdentifier reports whether s is usable as a resource or action name.
func IsIdentifier(s string) bool {
	return len(s) <= maxIdentifierLength && identifierPattern.MatchString(s)
}
