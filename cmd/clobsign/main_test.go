package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const (
	testSecret    = "L95OWCgbprfwozNeNUYnvU7A91iM-EH3uDZ6RTZYa-w="
	testTimestamp = "1765824355"

	// Order and signature from the reference Python client, neg-risk exchange.
	negRiskOrder = `{"salt":1297788380,"maker":"0xeFa7Cd2E9BFa38F04Af95df90da90B194e4ed191","signer":"0xeFa7Cd2E9BFa38F04Af95df90da90B194e4ed191","taker":"0x0000000000000000000000000000000000000000","tokenId":"59123046651639406043770531564026866824584320057748742767920960374229735119462","makerAmount":"85000","takerAmount":"100000","expiration":"0","nonce":"0","feeRateBps":"0","side":"BUY","signatureType":0,"signature":"0xf17d2cdb17146baacbf404baf3e4857b651d74c89fec74a79fd987ca59e0442572d684f0b1951de5b2746082b6765ade05a3168606f6d3dc24423d1603c34be01b"}`
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"clobsign"}, args...))
	return strings.TrimSpace(out.String()), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestHMACCommand_ReferenceVectors(t *testing.T) {
	out, err := run(t, "hmac", "--secret", testSecret, "--timestamp", testTimestamp, "--method", "GET", "--path", "/orders")
	require.NoError(t, err)
	assert.Equal(t, "_8B6jccnPMr5YfWpJRB1ns_-Z77q9df-bFSkyM0hv-s=", out)

	out, err = run(t, "hmac", "--secret", testSecret, "--timestamp", testTimestamp, "--method", "POST", "--path", "/order", "--body", `{"a": "b"}`, "--padding", "strip")
	require.NoError(t, err)
	assert.Equal(t, "-OXjc4ZU-b12cIwG4K_0kTIgbxNriWgrjHXBtx3P-5M", out)
}

func TestHMACCommand_BodyFile(t *testing.T) {
	const want = "-OXjc4ZU-b12cIwG4K_0kTIgbxNriWgrjHXBtx3P-5M="
	body := "@" + writeFile(t, "body.json", "{\"a\": \"b\"}\n")
	args := []string{"hmac", "--secret", testSecret, "--timestamp", testTimestamp, "--method", "POST", "--path", "/order", "--body", body}

	// The trailing newline is part of the signed message unless trimmed.
	out, err := run(t, args...)
	require.NoError(t, err)
	assert.NotEqual(t, want, out)

	out, err = run(t, append(args, "--trim-newline")...)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	out, err = run(t, append(args, "--trim-newline", "--verify", strings.TrimRight(want, "="))...)
	require.NoError(t, err)
	assert.Equal(t, "OK", out)

	_, err = run(t, append(args, "--verify", want)...)
	require.Error(t, err)
}

func TestOrderHashCommand(t *testing.T) {
	order := writeFile(t, "order.json", negRiskOrder)

	out, err := run(t, "order-hash", "--order", order, "--neg-risk", "--verify")
	require.NoError(t, err)
	assert.Contains(t, out, "verifyingContract: 0xC5d563A36AE78145C45a50134d48A1215220f80a")
	assert.Contains(t, out, "hash: 0x4ad9c939a74f236736b39df7c4e25c8b11665cfcbae9126f768515e7a992cfb6")
	assert.Contains(t, out, "signature: valid")

	_, err = run(t, "order-hash", "--order", order, "--verify")
	require.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	ref := writeFile(t, "ref.json", negRiskOrder)
	same := writeFile(t, "same.json", strings.ToLower(negRiskOrder[:100])+negRiskOrder[100:])
	drift := writeFile(t, "drift.json", strings.Replace(negRiskOrder, `"makerAmount":"85000"`, `"makerAmount":85000`, 1))

	_, err := run(t, "compare", "--reference", ref, "--candidate", same, "--strict-key-order")
	require.NoError(t, err)

	out, err := run(t, "compare", "--reference", ref, "--candidate", drift)
	require.Error(t, err)
	assert.Contains(t, out, "makerAmount")

	_, err = run(t, "compare", "--reference", ref, "--candidate", same, "--schema", "bogus")
	require.Error(t, err)
}
