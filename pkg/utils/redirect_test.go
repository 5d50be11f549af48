package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirectTarget(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/":                    "/",
		"/movie/abc":           "/movie/abc",
		"/movie/abc?x=1":       "/movie/abc?x=1",
		"https://evil.example": "/",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"javascript:alert(1)":  "/",
		"movie/abc":            "/",
		"/a\r\nSet-Cookie: x":  "/",
		"/\t/evil.example":     "/",
		"/\x0b/evil":           "/",
		"/\t\\evil":            "/",
		"/movie\\..\\x":        "/",
		"/a\x7fb":              "/",
		"/search?q=a%09b":      "/search?q=a%09b",
	}

	for target, want := range tests {
		assert.Equal(t, want, SafeRedirectTarget(target, "/"), "target %q", target)
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	assert.Regexp(t, `^[0-9a-f]{32}$`, id)
	assert.NotEqual(t, id, GenerateID())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, CheckPasswordHash("secret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("secret", "not-a-hash"))
}
