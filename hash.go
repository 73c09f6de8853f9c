package hal

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Hasher performs one-way hashing.
type Hasher interface {
	// Hash returns the hex-encoded digest of data.
	Hash(data []byte) (string, error)
}

// HashAlgo names a fingerprint algorithm.
type HashAlgo string

// Supported fingerprint algorithms.
const (
	HashSHA256  HashAlgo = "sha256"
	HashSHA512  HashAlgo = "sha512"
	HashBLAKE2b HashAlgo = "blake2b"
)

// IsValidHashAlgo reports whether algo names a builtin hasher.
func IsValidHashAlgo(algo HashAlgo) bool {
	_, ok := builtinHashers()[algo]
	return ok
}

// sha256Hasher implements SHA-256 hashing.
type sha256Hasher struct{}

// SHA256 returns a SHA-256 hasher.
// The result is a hex-encoded 64-character string.
func SHA256() Hasher {
	return &sha256Hasher{}
}

func (h *sha256Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// sha512Hasher implements SHA-512 hashing.
type sha512Hasher struct{}

// SHA512 returns a SHA-512 hasher.
// The result is a hex-encoded 128-character string.
func SHA512() Hasher {
	return &sha512Hasher{}
}

func (h *sha512Hasher) Hash(data []byte) (string, error) {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:]), nil
}

// blake2bHasher implements unkeyed BLAKE2b-256 hashing.
type blake2bHasher struct{}

// BLAKE2b returns a BLAKE2b-256 hasher.
// The result is a hex-encoded 64-character string.
func BLAKE2b() Hasher {
	return &blake2bHasher{}
}

func (h *blake2bHasher) Hash(data []byte) (string, error) {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// builtinHashers returns the default hasher set.
func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashSHA256:  SHA256(),
		HashSHA512:  SHA512(),
		HashBLAKE2b: BLAKE2b(),
	}
}

// HasherFor returns the builtin hasher for algo.
func HasherFor(algo HashAlgo) (Hasher, error) {
	h, ok := builtinHashers()[algo]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q", algo)
	}
	return h, nil
}

// Fingerprint hashes the canonical compact JSON tree of r.
//
// Links and embedded resources are collated before hashing, so relation
// declaration order does not change the result. Property order does.
// A representation that fails validation has no fingerprint.
func Fingerprint(r Representation, h Hasher) (string, error) {
	tree, err := EncodeTree(r, Options{})
	if err != nil {
		return "", err
	}
	data, err := tree.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return h.Hash(data)
}
