package jumpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

const (
	acceptJSON = "application/json"

	signatureAlgorithm = "hmac-sha256"
	signedHeaders      = "(request-target) accept date"
)

// Signer produces JumpServer API-Key Authorization headers.
// JumpServer verifies an HTTP-signature over the request target, Accept and Date headers.
type Signer struct {
	keyID  string
	secret []byte
}

// NewSigner creates a Signer for the given access key pair.
func NewSigner(keyID, secret string) *Signer {
	return &Signer{keyID: keyID, secret: []byte(secret)}
}

// Authorization returns the Authorization header value for one request.
// pathWithQuery is the exact request target sent on the wire; date is in http.TimeFormat.
func (s *Signer) Authorization(method, pathWithQuery, date string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signingString(method, pathWithQuery, date)))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf(`Signature keyId="%s",algorithm="%s",headers="%s",signature="%s"`,
		s.keyID, signatureAlgorithm, signedHeaders, signature)
}

func signingString(method, pathWithQuery, date string) string {
	return strings.Join([]string{
		"(request-target): " + strings.ToLower(method) + " " + pathWithQuery,
		"accept: " + acceptJSON,
		"date: " + date,
	}, "\n")
}

// normalizeBasePath returns "" or a path with one leading slash and no trailing slash.
func normalizeBasePath(basePath string) string {
	value := strings.TrimRight(strings.TrimSpace(basePath), "/")
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return value
}

// normalizeAPIPath makes sure an API-relative path starts with a slash.
func normalizeAPIPath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// buildQueryString drops empty values and encodes the rest sorted by key.
func buildQueryString(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	// Encode sorts by key
	return values.Encode()
}

// buildPathWithQuery joins the base path, API path and query into the signed request target.
func buildPathWithQuery(basePath, apiPath string, query map[string]string) string {
	pathWithQuery := normalizeBasePath(basePath) + normalizeAPIPath(apiPath)
	if qs := buildQueryString(query); qs != "" {
		pathWithQuery += "?" + qs
	}
	return pathWithQuery
}
