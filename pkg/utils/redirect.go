package utils

import (
	"net/url"
	"strings"
)

// SafeRedirectTarget returns target when it is a path on this site and
// fallback otherwise. Browsers drop tabs and newlines and read "\" as "/",
// so control bytes and backslashes are refused anywhere in the target.
func SafeRedirectTarget(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}

	for i := 0; i < len(target); i++ {
		if c := target[i]; c < 0x20 || c == 0x7f || c == '\\' {
			return fallback
		}
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}

	return target
}
