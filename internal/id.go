package internal

import (
	"crypto/sha256"
	"encoding/hex"
)

// IDLength is the number of hex characters in a memory identifier. 48 bits
// keeps IDs short enough to paste around; collisions between distinct paths
// are astronomically unlikely at the scale of a personal memory store.
const IDLength = 12

// DeriveID computes the public identifier of a memory from its file path,
// given as a slash-separated path relative to the memory root. The same path
// always yields the same identifier, so IDs survive process restarts and
// moving the memory root between machines.
func DeriveID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])[:IDLength]
}
