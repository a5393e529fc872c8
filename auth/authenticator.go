package auth

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AuthContext is the per-request input to the L2 signature. It is built for
// one request and never persisted.
type AuthContext struct {
	Secret    string
	Timestamp string
	Method    string
	Path      string
	Body      string
}

// Authenticator signs and verifies L2 request signatures with a fixed
// padding mode. It is safe for concurrent use.
type Authenticator struct {
	padding PaddingMode
	logger  *zap.Logger
}

// NewAuthenticator creates an Authenticator. A nil logger is replaced with a
// no-op logger.
func NewAuthenticator(padding PaddingMode, logger *zap.Logger) (*Authenticator, error) {
	if padding != PaddingKeep && padding != PaddingStrip {
		return nil, errors.Errorf("unsupported padding mode %d", int(padding))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{padding: padding, logger: logger}, nil
}

// Padding returns the configured padding mode
func (a *Authenticator) Padding() PaddingMode {
	return a.padding
}

// Sign returns the encoded HMAC digest for ctx.
func (a *Authenticator) Sign(ctx AuthContext) (string, error) {
	sig, err := buildAuthHeader(ctx, a.padding)
	if err != nil {
		a.logger.Sugar().Warnw("Failed to sign request",
			"method", ctx.Method,
			"path", ctx.Path,
			"error", err,
		)
		return "", err
	}
	a.logger.Sugar().Debugw("Signed request",
		"method", ctx.Method,
		"path", ctx.Path,
		"timestamp", ctx.Timestamp,
		"bodyLength", len(ctx.Body),
	)
	return sig, nil
}

// Verify recomputes the digest for ctx and compares it with presented,
// ignoring padding differences.
func (a *Authenticator) Verify(ctx AuthContext, presented string) error {
	expected, err := buildAuthHeader(ctx, a.padding)
	if err != nil {
		return err
	}
	if !DigestsEqual(expected, presented) {
		a.logger.Sugar().Infow("Request signature mismatch",
			"method", ctx.Method,
			"path", ctx.Path,
			"timestamp", ctx.Timestamp,
		)
		return errors.Wrapf(ErrDigestMismatch, "%s %s", ctx.Method, ctx.Path)
	}
	return nil
}
