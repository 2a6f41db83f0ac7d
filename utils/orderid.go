package utils

import (
	"crypto/rand"
	"math/big"
)

const orderCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomOrderCode returns a short uppercase alphanumeric code suitable for
// printing on a receipt. Uniqueness is the caller's job: codes are checked
// against existing orders before use.
func RandomOrderCode(length int) string {
	code := make([]byte, length)
	max := big.NewInt(int64(len(orderCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		code[i] = orderCodeAlphabet[n.Int64()]
	}
	return string(code)
}
