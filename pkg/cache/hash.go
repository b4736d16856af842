package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keySchema is hashed into every derived key. Bump it when the shape of
// cached payloads changes so old entries are never decoded.
const keySchema = 1

// hashKey returns "<kind>:<sha256 hex>" over the schema, kind and parts.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	fmt.Fprintf(h, "gcad/%d/%s\n", keySchema, kind)
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. Figure hashes and file cache paths
// use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
