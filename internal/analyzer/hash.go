package analyzer

import (
	"crypto/md5" //nolint:gosec // used for short file names, not for security
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// HashLength is the number of hex characters kept from a digest.
const HashLength = 8

// Algorithm selects the digest used for content hashes.
type Algorithm int

const (
	// MD5 is the default; it matches the names produced by earlier versions of the tool.
	MD5 Algorithm = iota
	// SHA256 is SHA-2 with a 256-bit output.
	SHA256
	// SHA3256 is SHA-3 with a 256-bit output.
	SHA3256
	// BLAKE2b is BLAKE2b with a 256-bit output.
	BLAKE2b
	// XXH3 is the non-cryptographic 64-bit XXH3 hash.
	XXH3
)

// algorithmNames maps algorithms to their configuration names.
var algorithmNames = map[Algorithm]string{
	MD5:     "md5",
	SHA256:  "sha256",
	SHA3256: "sha3-256",
	BLAKE2b: "blake2b",
	XXH3:    "xxh3",
}

// String returns the configuration name of the algorithm.
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAlgorithm converts a configuration name such as "sha256" to an Algorithm.
// Matching is case-insensitive. An empty name selects MD5.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return MD5, nil
	}
	for alg, n := range algorithmNames {
		if n == name {
			return alg, nil
		}
	}
	return MD5, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// AlgorithmNames returns the supported configuration names in a stable order.
func AlgorithmNames() []string {
	return []string{
		MD5.String(), SHA256.String(), SHA3256.String(), BLAKE2b.String(), XXH3.String(),
	}
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case SHA3256:
		return sha3.New256()
	case BLAKE2b:
		h, err := blake2b.New256(nil)
		if err != nil {
			// Only a key longer than 64 bytes fails; there is no key.
			panic(err)
		}
		return h
	case XXH3:
		return xxh3.New()
	default:
		return md5.New() //nolint:gosec
	}
}

// Digest returns the full lowercase hex digest of data.
func (a Algorithm) Digest(data []byte) string {
	h := a.newHash()
	h.Write(data) //nolint:errcheck // hash.Hash.Write never returns an error
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash returns the first HashLength hex characters of the digest of data.
func (a Algorithm) ContentHash(data []byte) string {
	return a.Digest(data)[:HashLength]
}
