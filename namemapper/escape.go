package namemapper

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// toFileVariant rewrites a colon-separated key into a filesystem-safe
// form using "~" separators with a ".lock" suffix (spec §4.B
// "filesystem-safe variant with ~ separators and .lock suffix").
func toFileVariant(key string) string {
	return strings.ReplaceAll(key, ":", "~") + ".lock"
}

// hashKey returns the hex-encoded SHA-1 digest of key. SHA-1 (not a
// stronger hash) is used deliberately: spec §4.B calls for "SHA-1 (or
// equivalent)" specifically to bound path length, not for any security
// property — collision resistance is irrelevant to a lock-file name.
func hashKey(key string) string {
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:]) + ".lock"
}

// shortHash is used by the discriminating strategy to fold an arbitrary
// string (hostname, local-repo path) down to a short, path-safe token.
func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// sanitizePathSegment replaces characters unsafe in a path segment with
// "_", used for non-standard metadata types (spec §4.B "all other types
// are sanitized to a path-safe segment").
func sanitizePathSegment(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
