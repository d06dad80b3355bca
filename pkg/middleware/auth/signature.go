package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Signature is a parsed `Authorization: Signature ...` header.
type Signature struct {
	KeyID     string
	Algorithm string
	Headers   []string
	Value     []byte
}

var (
	ErrNoSignature = errors.New("auth: request is not signed")
	ErrNoKey       = errors.New("auth: verification key not loaded")

	sigParamRE = regexp.MustCompile(`([A-Za-z]+)="([^"]*)"`)
)

// ParseSignature reads the signature parameters from an Authorization
// header value.
func ParseSignature(header string) (Signature, error) {
	scheme, params, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Signature") {
		return Signature{}, ErrNoSignature
	}
	var s Signature
	var raw string
	for _, m := range sigParamRE.FindAllStringSubmatch(params, -1) {
		switch strings.ToLower(m[1]) {
		case "keyid":
			s.KeyID = m[2]
		case "algorithm":
			s.Algorithm = strings.ToLower(m[2])
		case "headers":
			s.Headers = strings.Fields(strings.ToLower(m[2]))
		case "signature":
			raw = m[2]
		}
	}
	if raw == "" {
		return Signature{}, errors.New("auth: signature parameter missing")
	}
	v, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Signature{}, fmt.Errorf("auth: signature encoding: %w", err)
	}
	s.Value = v
	if len(s.Headers) == 0 {
		s.Headers = []string{"date"}
	}
	if s.Algorithm != "" && s.Algorithm != "rsa-sha256" {
		return Signature{}, fmt.Errorf("auth: unsupported algorithm %q", s.Algorithm)
	}
	return s, nil
}

// SigningString rebuilds the string the sender signed.
func SigningString(r *http.Request, headers []string) (string, error) {
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		switch h {
		case "(request-target)":
			target := r.URL.RequestURI()
			lines = append(lines, h+": "+strings.ToLower(r.Method)+" "+target)
		case "host":
			host := r.Host
			if host == "" {
				host = r.URL.Host
			}
			lines = append(lines, "host: "+host)
		default:
			vals := r.Header.Values(h)
			if len(vals) == 0 {
				return "", fmt.Errorf("auth: signed header %q missing", h)
			}
			lines = append(lines, h+": "+strings.Join(vals, ", "))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// Verify checks the request signature against the loaded key. When the
// digest header is signed, body must hash to it.
func (m *Middleware) Verify(r *http.Request, body []byte) (Signature, error) {
	sig, err := ParseSignature(r.Header.Get("Authorization"))
	if err != nil {
		return Signature{}, err
	}
	if m.keyKID != "" && sig.KeyID != m.keyKID {
		return Signature{}, fmt.Errorf("auth: unknown keyId %q", sig.KeyID)
	}
	pub := m.getKey()
	if pub == nil {
		return Signature{}, ErrNoKey
	}
	for _, h := range sig.Headers {
		if h == "digest" {
			if err := checkDigest(r.Header.Get("Digest"), body); err != nil {
				return Signature{}, err
			}
		}
	}
	ss, err := SigningString(r, sig.Headers)
	if err != nil {
		return Signature{}, err
	}
	if err := jwt.SigningMethodRS256.Verify(ss, sig.Value, pub); err != nil {
		return Signature{}, fmt.Errorf("auth: %w", err)
	}
	return sig, nil
}

// Digest renders the SHA-256 digest header value for body.
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return "SHA-256=" + base64.StdEncoding.EncodeToString(sum[:])
}

func checkDigest(header string, body []byte) error {
	want := Digest(body)
	for _, part := range strings.Split(header, ",") {
		alg, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		if strings.EqualFold(alg, "SHA-256") {
			if "SHA-256="+val == want {
				return nil
			}
			return errors.New("auth: digest mismatch")
		}
	}
	return errors.New("auth: SHA-256 digest missing")
}
