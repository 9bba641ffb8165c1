package sqlir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for structural hashing, one per node kind.
// Domain separation makes cross-kind hash collisions structurally
// impossible. Version suffix enables future algorithm migration.
const (
	domainBaseTable  = "tabula/table/base/v1"
	domainSelect     = "tabula/table/select/v1"
	domainInnerJoin  = "tabula/join/inner/v1"
	domainLeftJoin   = "tabula/join/left/v1"
	domainRightJoin  = "tabula/join/right/v1"
	domainCrossJoin  = "tabula/join/cross/v1"
	domainCrossApply = "tabula/join/cross-apply/v1"
	domainOuterApply = "tabula/join/outer-apply/v1"
	domainColumn     = "tabula/scalar/column/v1"
	domainLiteral    = "tabula/scalar/literal/v1"
	domainEquals     = "tabula/scalar/equals/v1"
	domainAnd        = "tabula/scalar/and/v1"
	domainList       = "tabula/list/v1"
)

// hashWithDomain computes SHA-256 over domain + parts with null-byte
// separation. The 0x00 separator prevents part-boundary ambiguity.
func hashWithDomain(domain string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, part := range parts {
		h.Write([]byte{0x00})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// normIdent NFC-normalizes an identifier or string literal before it
// enters a hash, so visually identical names hash identically.
func normIdent(s string) string {
	return norm.NFC.String(s)
}

// hashBool folds a flag into a hash part.
func hashBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
