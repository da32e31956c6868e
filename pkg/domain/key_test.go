package domain_test

import (
	"strings"
	"testing"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	valid := []string{"grid", "users:table", "contract-test-20260101", "ünïcode", "a.b"}
	for _, key := range valid {
		assert.NoError(t, domain.ValidateKey(key), key)
	}

	assert.ErrorIs(t, domain.ValidateKey(""), domain.ErrEmptyKey)

	invalid := []string{
		"..",
		".",
		"../etc/passwd",
		`dir\file`,
		"tab\tkey",
		"esc\x1b[31m",
		string([]byte{0xff, 0xfe}),
		strings.Repeat("k", domain.MaxKeySize+1),
	}
	for _, key := range invalid {
		assert.ErrorIs(t, domain.ValidateKey(key), domain.ErrInvalidKey, "%q", key)
	}
}
