package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandStr(t *testing.T) {
	s := RandStr(10)
	assert.Len(t, s, 10)

	for _, r := range s {
		assert.Contains(t, charset, string(r))
	}

	assert.NotEqual(t, RandStr(10), RandStr(10))
	assert.Empty(t, RandStr(0))
}

func TestRandStrLettersOnly(t *testing.T) {
	assert.NotContains(t, RandStr(256), " ")
	assert.Equal(t, -1, strings.IndexFunc(RandStr(256), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < 'A' || r > 'Z')
	}))
}
