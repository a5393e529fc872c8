package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PaddingMode selects whether encoded digests keep their trailing '='.
type PaddingMode int

const (
	// PaddingKeep emits the padded base64url form accepted by the exchange.
	PaddingKeep PaddingMode = iota
	// PaddingStrip removes trailing '=' characters.
	PaddingStrip
)

func (m PaddingMode) String() string {
	switch m {
	case PaddingKeep:
		return "keep"
	case PaddingStrip:
		return "strip"
	default:
		return "unknown"
	}
}

// ParsePaddingMode accepts "keep" or "strip"; empty means keep.
func ParsePaddingMode(s string) (PaddingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep":
		return PaddingKeep, nil
	case "strip":
		return PaddingStrip, nil
	default:
		return 0, errors.Errorf("unknown padding mode %q", s)
	}
}

// DecodeSecret decodes a URL-safe base64 secret. Trailing padding is optional.
func DecodeSecret(secret string) ([]byte, error) {
	trimmed := strings.TrimRight(secret, "=")
	if trimmed == "" {
		return nil, errors.Wrap(ErrInvalidSecretEncoding, "secret is empty")
	}
	decoded, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSecretEncoding, "failed to decode secret: %v", err)
	}
	return decoded, nil
}

// CanonicalTimestamp validates a unix-seconds timestamp and returns its
// decimal form without leading zeros or sign.
func CanonicalTimestamp(timestamp string) (string, error) {
	n, err := strconv.ParseUint(timestamp, 10, 64)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidTimestamp, "%q", timestamp)
	}
	return strconv.FormatUint(n, 10), nil
}

// TimestampFromUnix formats unix seconds for the POLY_TIMESTAMP header.
func TimestampFromUnix(sec int64) string {
	return strconv.FormatInt(sec, 10)
}

// BuildMessage assembles the signed message:
// timestamp + method + path, then the body with single quotes replaced by
// double quotes when the body is non-empty.
func BuildMessage(timestamp, method, path, body string) string {
	var sb strings.Builder
	sb.Grow(len(timestamp) + len(method) + len(path) + len(body))
	sb.WriteString(timestamp)
	sb.WriteString(method)
	sb.WriteString(path)
	if body != "" {
		sb.WriteString(strings.ReplaceAll(body, "'", `"`))
	}
	return sb.String()
}

// ComputeDigest returns HMAC-SHA256(secret, message).
func ComputeDigest(secret []byte, message string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

// EncodeDigest renders a digest as URL-safe base64.
func EncodeDigest(digest []byte, mode PaddingMode) string {
	if mode == PaddingStrip {
		return base64.RawURLEncoding.EncodeToString(digest)
	}
	return base64.URLEncoding.EncodeToString(digest)
}

// BuildAuthHeader computes the POLY_SIGNATURE value for one request, in the
// padded form.
func BuildAuthHeader(secret, timestamp, method, path, body string) (string, error) {
	return buildAuthHeader(AuthContext{
		Secret:    secret,
		Timestamp: timestamp,
		Method:    method,
		Path:      path,
		Body:      body,
	}, PaddingKeep)
}

func buildAuthHeader(ctx AuthContext, mode PaddingMode) (string, error) {
	timestamp, err := CanonicalTimestamp(ctx.Timestamp)
	if err != nil {
		return "", err
	}
	key, err := DecodeSecret(ctx.Secret)
	if err != nil {
		return "", err
	}
	defer clear(key)

	digest := ComputeDigest(key, BuildMessage(timestamp, ctx.Method, ctx.Path, ctx.Body))
	return EncodeDigest(digest, mode), nil
}

// DigestsEqual compares two encoded digests in constant time, ignoring
// trailing padding.
func DigestsEqual(a, b string) bool {
	return hmac.Equal([]byte(strings.TrimRight(a, "=")), []byte(strings.TrimRight(b, "=")))
}
