// Example usage of the CLOB signing client. Nothing is sent over the network;
// the prepared requests are printed instead.
package main

import (
	"fmt"
	"log"

	clobsign "github.com/kaifufi/clob-signing-go"
	"github.com/kaifufi/clob-signing-go/internal/logger"
)

// well-known development key, never use it with real funds
const devPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func main() {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: true})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer l.Sync() //nolint:errcheck

	// Read settings from CLOB_* environment variables, falling back to
	// development values.
	cfg, err := clobsign.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.PrivateKey == "" {
		cfg.PrivateKey = devPrivateKey
	}
	if cfg.Credentials.APIKey == "" {
		cfg.Credentials.APIKey = "1a846e10-1906-c373-b2b9-c853e39a334a"
		cfg.Credentials.Secret = "L95OWCgbprfwozNeNUYnvU7A91iM-EH3uDZ6RTZYa-w="
		cfg.Credentials.Passphrase = "passphrase"
	}

	client, err := clobsign.NewClient(cfg, l)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	// Wallet-authenticated request for API credentials
	derive, err := client.PrepareDeriveAPIKey(0)
	if err != nil {
		log.Fatalf("Failed to prepare derive request: %v", err)
	}
	printRequest(derive)

	// Buy 10 shares at 0.42
	req, err := client.PrepareOrder(clobsign.OrderArgs{
		TokenID:   "59123046651639406043770531564026866824584320057748742767920960374229735119462",
		Price:     "0.42",
		Size:      "10",
		Side:      clobsign.OrderSideBuy,
		OrderType: clobsign.OrderTypeGTC,
	})
	if err != nil {
		log.Fatalf("Failed to prepare order: %v", err)
	}
	printRequest(req)

	if err := client.VerifyRequest(req); err != nil {
		log.Fatalf("Prepared request does not verify: %v", err)
	}
	fmt.Println("\nRequest signature verified")
}

func printRequest(req *clobsign.PreparedRequest) {
	fmt.Printf("\n%s %s\n", req.Method, req.Path)
	for key, values := range req.Header {
		fmt.Printf("%s: %s\n", key, values[0])
	}
	if len(req.Body) > 0 {
		fmt.Printf("\n%s\n", req.Body)
	}
}
