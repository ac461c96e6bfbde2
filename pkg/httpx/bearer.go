package httpx

import "strings"

// ParseBearer extracts the credential from a "Bearer <token>" header value.
// The scheme is matched case-insensitively and the token must be a single
// non-empty field.
func ParseBearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
