package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 16
)

// Prefixes for externally visible identifiers.
const (
	PrefixWalletTransaction = "wtx"
)

// Generate returns a cryptographically random Base62 string.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result), nil
}

// GenerateWithPrefix creates an ID of the form "prefix_random".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	s, err := Generate(length)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

// NewWalletTransactionID generates a wallet ledger transaction id.
func NewWalletTransactionID() (string, error) {
	return GenerateWithPrefix(PrefixWalletTransaction, DefaultLength)
}

// HasPrefix reports whether prefixedID is well formed and carries prefix.
func HasPrefix(prefixedID, prefix string) bool {
	p, rest, ok := strings.Cut(prefixedID, "_")
	return ok && p == prefix && rest != ""
}
