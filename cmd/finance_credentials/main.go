// Command finance_credentials prints the secrets an AUTH_ENABLED backend accepts:
// a signed bearer token for a user, or a new API key with its API_KEY_HASH value.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/utils/credentials"
)

const apiKeyBytes = 32

func main() {
	token := flag.Bool("token", false, "issue a bearer token signed with JWT_SECRET")
	user := flag.String("user", "", "user ID stored as the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	apiKey := flag.Bool("apikey", false, "generate an API key and its bcrypt hash")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(os.Stdout, *token, *apiKey, *user, *ttl); err != nil {
		logger.Error("finance_credentials failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(out io.Writer, token, apiKey bool, user string, ttl time.Duration) error {
	if token == apiKey {
		return errors.New("pass exactly one of -token or -apikey")
	}

	if apiKey {
		key, err := credentials.NewAPIKey(apiKeyBytes)
		if err != nil {
			return err
		}
		hash, err := credentials.HashAPIKey(key)
		if err != nil {
			return fmt.Errorf("hash api key: %w", err)
		}
		fmt.Fprintf(out, "API key (send as X-API-Key): %s\n", key)
		fmt.Fprintf(out, "API_KEY_HASH=%s\n", hash)
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("invalid ttl %v: must be positive", ttl)
	}
	signed, err := credentials.IssueToken(user, cfg.JWTSecret, ttl)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Fprintln(out, signed)
	return nil
}
