package util

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const randomStringAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString generates an alphanumeric string, used for OAuth state values and throwaway names
func RandomString(length int) string {
	var builder strings.Builder
	builder.Grow(length)

	max := big.NewInt(int64(len(randomStringAlphabet)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}

		builder.WriteByte(randomStringAlphabet[n.Int64()])
	}

	return builder.String()
}

// ContainsAllFold reports whether every term is a case-insensitive substring of s
func ContainsAllFold(s string, terms []string) bool {
	lower := strings.ToLower(s)

	for _, term := range terms {
		if !strings.Contains(lower, strings.ToLower(term)) {
			return false
		}
	}

	return true
}

func IsDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
