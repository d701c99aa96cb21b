package formwork

import (
	"net/url"
	"strings"
)

// ProceedURL composes the redirect after a successful submission.
//
// next is prefixed with "/"+basePath when basePath is set. A returnURL
// replaces the target, unless force is set, in which case the target is kept
// and returnURL is passed along as the "returnUrl" query parameter. A
// returnURL that is not a path on this host is ignored.
func ProceedURL(basePath, next, returnURL string, force bool) string {
	target := next
	if basePath != "" {
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}
		target = "/" + strings.Trim(basePath, "/") + target
	}

	if !IsLocalPath(returnURL) {
		return target
	}
	if !force {
		return returnURL
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + "returnUrl=" + url.QueryEscape(returnURL)
}

// IsLocalPath reports whether u is an absolute path on the current host, with
// no scheme and no authority. "//evil.example" and `/\evil.example` are not.
func IsLocalPath(u string) bool {
	if !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") || strings.HasPrefix(u, "/\\") {
		return false
	}
	parsed, err := url.Parse(u)
	return err == nil && parsed.Scheme == "" && parsed.Host == ""
}
