// Package credentials loads the service account used to read the spreadsheet.
package credentials

import (
	"fmt"
	"strings"

	"github.com/sagarc03/sheetbridge"
)

// Config holds the configured credential sources.
type Config struct {
	ClientEmail string `mapstructure:"client_email"` // Inline service account email
	PrivateKey  string `mapstructure:"private_key"`  // Inline PEM key, may use literal \n escapes
	File        string `mapstructure:"file"`         // Path to a service account JSON key file
}

// ServiceAccount is a resolved service account credential.
type ServiceAccount struct {
	Email      string
	PrivateKey []byte
	// TokenURL overrides the OAuth token endpoint; empty means Google's default.
	TokenURL string
}

// Load resolves a ServiceAccount from inline values and the key file (if
// specified). File values take precedence over inline values when both are
// set. Both an email and a private key are required; their absence is a
// configuration error.
func Load(cfg Config) (ServiceAccount, error) {
	sa := ServiceAccount{
		Email:      strings.TrimSpace(cfg.ClientEmail),
		PrivateKey: []byte(UnescapePrivateKey(cfg.PrivateKey)),
	}

	if cfg.File != "" {
		fromFile, err := LoadKeyFile(cfg.File)
		if err != nil {
			return ServiceAccount{}, fmt.Errorf("load credentials: %w: %w", sheetbridge.ErrConfig, err)
		}
		if fromFile.Email != "" {
			sa.Email = fromFile.Email
		}
		if len(fromFile.PrivateKey) > 0 {
			sa.PrivateKey = fromFile.PrivateKey
		}
		sa.TokenURL = fromFile.TokenURL
	}

	if sa.Email == "" {
		return ServiceAccount{}, fmt.Errorf("load credentials: %w: %w", sheetbridge.ErrConfig, ErrEmailRequired)
	}
	if len(sa.PrivateKey) == 0 {
		return ServiceAccount{}, fmt.Errorf("load credentials: %w: %w", sheetbridge.ErrConfig, ErrPrivateKeyRequired)
	}

	return sa, nil
}

// UnescapePrivateKey turns literal "\n" sequences into newlines. Keys pasted
// into environment variables usually arrive escaped on a single line.
func UnescapePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
