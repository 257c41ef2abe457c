package flickr

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"slices"
	"strings"
)

// Signer builds signed parameter sets for the Flickr REST API.
//
// Every request carries api_key, format=json, method and nojsoncallback=1
// plus the method's own parameters. The api_sig parameter is the hex md5 of
// the shared secret followed by each key and value, keys sorted ascending:
//
//	api_sig = md5(secret + "api_key" + key + "format" + "json" + "method" + ...)
//
// The secret itself is never sent.
type Signer struct {
	APIKey string
	Secret string
}

// NewSigner creates a Signer for the given credentials.
func NewSigner(apiKey, secret string) *Signer {
	return &Signer{APIKey: apiKey, Secret: secret}
}

// Sign returns the complete form for calling method with params,
// including api_sig.
func (s *Signer) Sign(method string, params map[string]string) url.Values {
	values := url.Values{}
	values.Set("api_key", s.APIKey)
	values.Set("format", "json")
	values.Set("method", method)
	values.Set("nojsoncallback", "1")
	for k, v := range params {
		values.Set(k, v)
	}

	values.Set("api_sig", s.Signature(values))
	return values
}

// Signature computes api_sig for values. An api_sig already present in
// values is ignored.
func (s *Signer) Signature(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "api_sig" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(s.Secret)
	for _, k := range keys {
		for _, v := range values[k] {
			b.WriteString(k)
			b.WriteString(v)
		}
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
