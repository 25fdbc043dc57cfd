package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainPredicate is the domain prefix for predicate cache keys.
// Version suffix enables future algorithm migration.
const DomainPredicate = "exprsql/predicate/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PredicateHash computes the cache key for a predicate compiled by one dialect.
// tree is the canonical object form of the expression.
func PredicateHash(dialect string, tree IRObject) (string, error) {
	canonical, err := MarshalCanonical(IRObject{
		"dialect": IRString(dialect),
		"tree":    tree,
	})
	if err != nil {
		return "", fmt.Errorf("PredicateHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPredicate, canonical), nil
}
