// File: internal/infra/paynow/hash.go
package paynow

import (
	"crypto/sha512"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash computes the Paynow message digest: the values of every field except
// "hash", ordered by byte-wise sort of the key names, concatenated with no
// separator, with the raw integration key appended, SHA-512, uppercase hex.
//
// This is the sole authentication mechanism on the webhook path, so the
// construction must not drift: key order is ordinal and case-sensitive, and
// only the "hash" field itself is excluded.
func Hash(fields map[string]string, integrationKey string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if strings.EqualFold(k, "hash") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fields[k])
	}
	b.WriteString(integrationKey)

	sum := sha512.Sum512([]byte(b.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Verify recomputes the digest and compares it against the supplied "hash"
// field, case-insensitively on both the digest and the field name. A missing
// hash never verifies.
func Verify(fields map[string]string, integrationKey string) bool {
	var supplied string
	for k, v := range fields {
		if strings.EqualFold(k, "hash") {
			supplied = v
			break
		}
	}
	if supplied == "" {
		return false
	}
	return strings.EqualFold(Hash(fields, integrationKey), supplied)
}
