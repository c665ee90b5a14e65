package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. It names cache files and
// fingerprints canonical chart encodings.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "<kind>:<sha256 of the JSON encoded parts>". Parts must be
// plain data; struct fields are encoded in declaration order, so key
// layouts stay stable across runs.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}
