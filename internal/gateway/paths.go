package gateway

import "strings"

// Prefixes forwarded to the backend.
var Prefixes = []string{"/auth/", "/admin/", "/doctor/", "/patient/"}

// publicPaths may be forwarded without a credential.
var publicPaths = []string{"/auth/login", "/auth/signup-patient"}

// Protected reports whether path falls under a forwarded prefix.
func Protected(path string) bool {
	for _, p := range Prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// IsPublic matches the request URI (path plus query) exactly against the
// public paths, optionally followed by a query string.
func IsPublic(requestURI string) bool {
	for _, p := range publicPaths {
		if requestURI == p || strings.HasPrefix(requestURI, p+"?") {
			return true
		}
	}
	return false
}

// WantsHTML is true for browser navigations, which are answered with the
// single-page app instead of being forwarded.
func WantsHTML(accept string) bool {
	return strings.Contains(accept, "text/html")
}
