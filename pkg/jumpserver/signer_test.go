package jumpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigner_Authorization(t *testing.T) {
	signer := NewSigner("test-key", "test-secret")

	got := signer.Authorization("GET",
		"/api/v1/assets/databases/suggestions/?search=DB-ltc-prod",
		"Sat, 17 Oct 2026 08:00:00 GMT")

	want := `Signature keyId="test-key",algorithm="hmac-sha256",headers="(request-target) accept date",` +
		`signature="Deq4JfE3nLta+Q/w6yHslwifkPSoDxA6qt267A8jv6E="`
	assert.Equal(t, want, got)
}

func TestSigningString(t *testing.T) {
	got := signingString("POST", "/api/v1/authentication/connection-token/", "Sat, 17 Oct 2026 08:00:00 GMT")

	want := "(request-target): post /api/v1/authentication/connection-token/\n" +
		"accept: application/json\n" +
		"date: Sat, 17 Oct 2026 08:00:00 GMT"
	assert.Equal(t, want, got)
}

func TestNormalizeBasePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/api/v1", "/api/v1"},
		{"/api/v1/", "/api/v1"},
		{"api/v1", "/api/v1"},
		{"api/v1//", "/api/v1"},
		{"  /api/v1  ", "/api/v1"},
		{"", ""},
		{"   ", ""},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeBasePath(tt.input))
		})
	}
}

func TestNormalizeAPIPath(t *testing.T) {
	assert.Equal(t, "/", normalizeAPIPath(""))
	assert.Equal(t, "/assets/", normalizeAPIPath("assets/"))
	assert.Equal(t, "/assets/", normalizeAPIPath("/assets/"))
}

func TestBuildQueryString(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{name: "sorted by key", params: map[string]string{"b": "2", "a": "1"}, want: "a=1&b=2"},
		{name: "empty values dropped", params: map[string]string{"token": "", "protocol": "mysql"}, want: "protocol=mysql"},
		{name: "all empty", params: map[string]string{"token": ""}, want: ""},
		{name: "nil map", params: nil, want: ""},
		{name: "form encoding", params: map[string]string{"b": "2", "a": "1", "q": "x y&z"}, want: "a=1&b=2&q=x+y%26z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildQueryString(tt.params))
		})
	}
}

func TestBuildPathWithQuery(t *testing.T) {
	assert.Equal(t,
		"/api/v1/terminal/endpoints/smart/?protocol=mysql&token=u1",
		buildPathWithQuery("/api/v1/", "terminal/endpoints/smart/", map[string]string{"token": "u1", "protocol": "mysql"}))

	assert.Equal(t,
		"/authentication/connection-token/",
		buildPathWithQuery("", "/authentication/connection-token/", nil))
}
