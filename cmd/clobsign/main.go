package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	clobsign "github.com/kaifufi/clob-signing-go"
	"github.com/kaifufi/clob-signing-go/auth"
	"github.com/kaifufi/clob-signing-go/chain"
	"github.com/kaifufi/clob-signing-go/conformance"
	"github.com/kaifufi/clob-signing-go/internal/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "clobsign",
		Usage: "Offline signing and conformance tool for CLOB order requests",
		Description: `Computes and checks the values a CLOB client attaches to requests.

- hmac: compute or verify the POLY_SIGNATURE header
- order-hash: print the EIP712 signing preimage and hash of an order body
- compare: check two order bodies for field-by-field equivalence`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "hmac",
				Usage: "Compute the L2 HMAC signature of a request",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "secret",
						Usage:    "URL-safe base64 API secret",
						EnvVars:  []string{clobsign.EnvAPISecret},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "timestamp",
						Usage:    "Unix timestamp in seconds",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "HTTP method",
						Value: "GET",
					},
					&cli.StringFlag{
						Name:     "path",
						Usage:    "Request path",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "body",
						Usage: "Request body, or @file to read it from a file. File contents are signed byte for byte, including a trailing newline",
					},
					&cli.BoolFlag{
						Name:  "trim-newline",
						Usage: "Drop trailing CR/LF characters from the body before signing",
					},
					&cli.StringFlag{
						Name:    "padding",
						Usage:   "Digest padding: keep or strip",
						EnvVars: []string{clobsign.EnvHeaderPadding},
						Value:   "keep",
					},
					&cli.StringFlag{
						Name:  "verify",
						Usage: "Check this digest instead of printing one",
					},
				},
				Action: hmacCommand,
			},
			{
				Name:  "order-hash",
				Usage: "Print the EIP712 preimage and hash of a transport order body",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "order",
						Usage:    "Path to the order JSON",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:    "chain-id",
						Usage:   "Chain ID",
						EnvVars: []string{clobsign.EnvChainID},
						Value:   uint64(clobsign.ChainIDPolygonMainnet),
					},
					&cli.StringFlag{
						Name:    "exchange",
						Usage:   "Exchange contract address (defaults per chain)",
						EnvVars: []string{clobsign.EnvExchange},
					},
					&cli.StringFlag{
						Name:    "neg-risk-exchange",
						Usage:   "Neg-risk exchange contract address (defaults per chain)",
						EnvVars: []string{clobsign.EnvNegRiskExchange},
					},
					&cli.BoolFlag{
						Name:    "neg-risk",
						Usage:   "Sign against the neg-risk exchange",
						EnvVars: []string{clobsign.EnvNegRisk},
					},
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "Recover the signer from the order signature",
					},
				},
				Action: orderHashCommand,
			},
			{
				Name:  "compare",
				Usage: "Compare a reference and a candidate JSON body",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "reference",
						Usage:    "Path to the reference JSON",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "candidate",
						Usage:    "Path to the candidate JSON",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Schema to compare against: order or postOrder",
						Value: "order",
					},
					&cli.BoolFlag{
						Name:  "strict-key-order",
						Usage: "Treat differing key order as a mismatch",
					},
				},
				Action: compareCommand,
			},
		},
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
}

func readBody(arg string) (string, error) {
	if len(arg) > 0 && arg[0] == '@' {
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return "", fmt.Errorf("failed to read body: %w", err)
		}
		return string(data), nil
	}
	return arg, nil
}

func hmacCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	padding, err := auth.ParsePaddingMode(c.String("padding"))
	if err != nil {
		return err
	}
	authenticator, err := auth.NewAuthenticator(padding, l)
	if err != nil {
		return err
	}
	body, err := readBody(c.String("body"))
	if err != nil {
		return err
	}
	if c.Bool("trim-newline") {
		body = strings.TrimRight(body, "\r\n")
	}

	ctx := auth.AuthContext{
		Secret:    c.String("secret"),
		Timestamp: c.String("timestamp"),
		Method:    c.String("method"),
		Path:      c.String("path"),
		Body:      body,
	}

	if presented := c.String("verify"); presented != "" {
		if err := authenticator.Verify(ctx, presented); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Fprintln(c.App.Writer, "OK")
		return nil
	}

	digest, err := authenticator.Sign(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, digest)
	return nil
}

func orderHashCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.String("order"))
	if err != nil {
		return fmt.Errorf("failed to read order: %w", err)
	}
	signed, err := chain.DeserializeTransportBody(data)
	if err != nil {
		return err
	}

	cfg := &clobsign.Config{
		ChainID:         clobsign.ChainID(c.Uint64("chain-id")),
		Exchange:        c.String("exchange"),
		NegRiskExchange: c.String("neg-risk-exchange"),
		NegRisk:         c.Bool("neg-risk"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	domain := cfg.Domain()

	preimage, err := chain.EncodeOrderForSigning(domain, &signed.Order)
	if err != nil {
		return err
	}
	hash, err := chain.CreateOrderSignHash(domain, &signed.Order)
	if err != nil {
		return err
	}
	l.Sugar().Debugw("Encoded order",
		"chainId", cfg.ChainID,
		"verifyingContract", domain.VerifyingContract.Hex(),
		"salt", signed.Salt,
	)

	w := c.App.Writer
	fmt.Fprintf(w, "verifyingContract: %s\n", domain.VerifyingContract.Hex())
	fmt.Fprintf(w, "preimage: 0x%s\n", hex.EncodeToString(preimage))
	fmt.Fprintf(w, "hash: %s\n", hash.Hex())

	if c.Bool("verify") {
		if err := chain.VerifySignature(domain, signed); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Fprintf(w, "signature: valid for %s\n", signed.Signer)
	}
	return nil
}

func compareCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return err
	}

	var schema conformance.Schema
	switch c.String("schema") {
	case "order":
		schema = conformance.OrderSchema()
	case "postOrder":
		schema = conformance.PostOrderSchema()
	default:
		return fmt.Errorf("unknown schema %q", c.String("schema"))
	}

	reference, err := os.ReadFile(c.String("reference"))
	if err != nil {
		return fmt.Errorf("failed to read reference: %w", err)
	}
	candidate, err := os.ReadFile(c.String("candidate"))
	if err != nil {
		return fmt.Errorf("failed to read candidate: %w", err)
	}

	var opts []conformance.Option
	if c.Bool("strict-key-order") {
		opts = append(opts, conformance.WithStrictKeyOrder())
	}
	report, err := conformance.NewChecker(schema, l, opts...).Compare(reference, candidate)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, report.String())
	if !report.OverallMatch {
		return cli.Exit("bodies are not equivalent", 1)
	}
	return nil
}
