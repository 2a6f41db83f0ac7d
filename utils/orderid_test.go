package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomOrderCodeLengthAndAlphabet(t *testing.T) {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	for i := 0; i < 100; i++ {
		code := RandomOrderCode(6)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected character %q in %q", r, code)
		}
	}
}

func TestRandomOrderCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[RandomOrderCode(6)] = true
	}
	assert.Greater(t, len(seen), 1)
}
