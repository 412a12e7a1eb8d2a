package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"jobradar-engine/internal/config"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "jobradar"

// GetSMTPPassword resolves the mail password: OS keyring first, then the
// GMAIL_APP_PASSWORD / SMTP_PASSWORD environment variables.
func GetSMTPPassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	if pw := os.Getenv("GMAIL_APP_PASSWORD"); pw != "" {
		return pw, nil
	}
	if pw := os.Getenv("SMTP_PASSWORD"); pw != "" {
		return pw, nil
	}
	return "", errors.New("SMTP password not found (set it in the keychain or via GMAIL_APP_PASSWORD)")
}

func SetSMTPPassword(keyringAccount, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteSMTPPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// SMTPKeyringAccount is the conventional account name for a config's mail
// sender, unless the config pins one explicitly.
func SMTPKeyringAccount(cfg config.Config) string {
	if cfg.Notify.Email.KeyringAccount != "" {
		return cfg.Notify.Email.KeyringAccount
	}
	return fmt.Sprintf("jobradar:smtp:%s@%s", cfg.Notify.Email.From, cfg.Notify.Email.SMTPHost)
}
