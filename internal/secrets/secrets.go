package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "jobscout"

	rapidAPIAccount = "jobscout:rapidapi"
	imapAccount     = "jobscout:imap"
)

// GetRapidAPIKey checks the keychain first and falls back to the
// RAPIDAPI_KEY environment variable.
func GetRapidAPIKey() (string, error) {
	if key, err := keyring.Get(KeyringService, rapidAPIAccount); err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), nil
	}
	if key := strings.TrimSpace(os.Getenv("RAPIDAPI_KEY")); key != "" {
		return key, nil
	}
	return "", errors.New("RapidAPI key not found (set it in keychain or RAPIDAPI_KEY)")
}

func SetRapidAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key is empty")
	}
	return keyring.Set(KeyringService, rapidAPIAccount, key)
}

func DeleteRapidAPIKey() error {
	return keyring.Delete(KeyringService, rapidAPIAccount)
}

// GetIMAPPassword resolves the mailbox password for alert ingestion.
func GetIMAPPassword(username, host string) (string, error) {
	account := imapAccount + ":" + username + "@" + host
	if pw, err := keyring.Get(KeyringService, account); err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	if pw := strings.TrimSpace(os.Getenv("IMAP_PASSWORD")); pw != "" {
		return pw, nil
	}
	return "", errors.New("IMAP password not found (set it in keychain or IMAP_PASSWORD)")
}

func SetIMAPPassword(username, host, password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, imapAccount+":"+username+"@"+host, password)
}
