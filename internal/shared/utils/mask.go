package utils

import "strings"

// MaskEmail keeps the first letter of the local part and the domain, so
// "alice@acme.io" logs as "a***@acme.io".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "***"
	}
	if local != "" {
		local = local[:1]
	}
	return local + "***@" + domain
}
