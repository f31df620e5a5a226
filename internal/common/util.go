package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate before
// encoding them as a hexadecimal string, so the final string length is twice
// the size. It returns an error if the random number generator fails.
//
// Example:
//
//	s, err := MakeRandHexString(32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s) // e.g., "9f2d4c3a5e6b1a7d..."
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
