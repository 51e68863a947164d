// Package secrets fills sensitive configuration fields from HashiCorp
// Vault, so tokens never have to live in plain environment variables.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/pravobot/pravobot/internal/config"
)

// Options locate the secret holding PravoBot credentials.
type Options struct {
	Address    string
	Token      string
	SecretPath string
}

// FromEnv reads the Vault settings. An empty address disables the source.
func FromEnv() Options {
	return Options{
		Address:    strings.TrimSpace(os.Getenv("VAULT_ADDR")),
		Token:      strings.TrimSpace(os.Getenv("VAULT_TOKEN")),
		SecretPath: strings.TrimSpace(os.Getenv("VAULT_SECRET_PATH")),
	}
}

func (o Options) Enabled() bool {
	return o.Address != ""
}

func (o Options) validate() error {
	if o.Token == "" {
		return errors.New("VAULT_TOKEN is required when VAULT_ADDR is set")
	}
	if o.SecretPath == "" {
		return errors.New("VAULT_SECRET_PATH is required when VAULT_ADDR is set")
	}
	return nil
}

// Fill reads the secret and copies known keys into cfg, only for fields
// that are still empty: explicit environment values win over Vault.
func Fill(ctx context.Context, cfg *config.Config, opts Options) error {
	if !opts.Enabled() {
		return nil
	}
	if err := opts.validate(); err != nil {
		return err
	}

	vcfg := vaultapi.DefaultConfig()
	vcfg.Address = opts.Address
	client, err := vaultapi.NewClient(vcfg)
	if err != nil {
		return fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(opts.Token)

	secret, err := client.Logical().ReadWithContext(ctx, opts.SecretPath)
	if err != nil {
		return fmt.Errorf("vault read %s: %w", opts.SecretPath, err)
	}
	if secret == nil || secret.Data == nil {
		return fmt.Errorf("vault secret %s is empty", opts.SecretPath)
	}

	data := secret.Data
	// KV v2 nests the payload one level deeper.
	if nested, ok := data["data"].(map[string]any); ok {
		data = nested
	}

	fill := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := data[key].(string); ok {
			*dst = v
		}
	}

	fill(&cfg.TelegramBotToken, "telegram_bot_token")
	fill(&cfg.TelegramWebhookSecret, "telegram_webhook_secret")
	fill(&cfg.DadataToken, "dadata_token")
	fill(&cfg.DadataSecret, "dadata_secret")
	fill(&cfg.BitrixClientID, "bitrix_client_id")
	fill(&cfg.BitrixClientSecret, "bitrix_client_secret")
	return nil
}
