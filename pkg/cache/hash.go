package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// graphKeyPrefix namespaces processed-graph entries so a shared backend can
// host other payloads without collisions.
const graphKeyPrefix = "graph:"

// DocumentKey derives a deterministic cache key from a raw state-machine
// document. The document is marshaled to JSON (encoding/json sorts map keys,
// so field order never affects the key) and hashed; two documents with the
// same content always share a key.
func DocumentKey(doc map[string]any) string {
	data, err := json.Marshal(doc)
	if err != nil {
		// Raw documents come from JSON/YAML decoding, so they are always
		// marshalable; a non-marshalable value can only mean a programmatic
		// caller, and an unshared key just means a cache miss.
		return graphKeyPrefix + "unhashable"
	}
	return graphKeyPrefix + Hash(data)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
