package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDomainFromOrigin(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		expected string
		hasError bool
	}{
		{name: "Valid HTTPS origin", origin: "https://example.com", expected: "example.com"},
		{name: "Valid HTTP origin", origin: "http://localhost:3000", expected: "localhost:3000"},
		{name: "Origin with path", origin: "https://example.com/path", expected: "example.com"},
		{name: "Empty origin", origin: "", expected: ""},
		{name: "Invalid origin", origin: "://invalid", expected: "", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractDomainFromOrigin(tt.origin)

			if tt.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "bridge.xyz", NormalizeDomain("WWW.Bridge.xyz"))
	assert.Equal(t, "localhost", NormalizeDomain("localhost:8000"))
	assert.Equal(t, "", NormalizeDomain(""))
}

func TestIsOriginAllowed(t *testing.T) {
	allowList := []string{"bridge.xyz", "withpersona.com"}
	appOrigin := "https://app.example.com"

	tests := []struct {
		name     string
		origin   string
		list     []string
		expected bool
	}{
		{name: "exact host", origin: "https://bridge.xyz", list: allowList, expected: true},
		{name: "subdomain", origin: "https://inquiry.withpersona.com", list: allowList, expected: true},
		{name: "same origin", origin: "https://app.example.com", list: allowList, expected: true},
		{name: "same origin with empty list", origin: "https://app.example.com", list: nil, expected: true},
		{name: "lookalike suffix", origin: "https://evilbridge.xyz", list: allowList, expected: false},
		{name: "lookalike prefix", origin: "https://bridge.xyz.attacker.io", list: allowList, expected: false},
		{name: "empty list rejects others", origin: "https://bridge.xyz", list: nil, expected: false},
		{name: "empty origin", origin: "", list: allowList, expected: false},
		{name: "scheme mismatch on app origin", origin: "http://app.example.com", list: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOriginAllowed(tt.origin, appOrigin, tt.list))
		})
	}
}
