package utils

import "regexp"

// emailPattern is the fixed syntactic check applied to every recipient before a
// message is handed to a transport. Letters/digits/_.+- in the local part, then
// a domain with at least one dot-separated label. No DNS or deliverability check.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// IsValidEmail reports whether the address passes the syntactic pattern.
func IsValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}
