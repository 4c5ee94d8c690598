package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

var (
	ErrBotTokenNotConfigured = errors.New("bot token not configured")
	ErrHashMissing           = errors.New("hash missing")
	ErrInvalidSignature      = errors.New("invalid authentication")
)

// DataCheckString renders claims as sorted key=value lines, skipping the hash field.
func DataCheckString(claims map[string]string) string {
	keys := make([]string, 0, len(claims))
	for k := range claims {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + claims[k]
	}
	return strings.Join(lines, "\n")
}

// Sign computes the lowercase hex HMAC-SHA256 of the claims, keyed by SHA-256(botToken).
func Sign(claims map[string]string, botToken string) string {
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(DataCheckString(claims)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyTelegramLogin checks a Telegram Login Widget payload against botToken.
func VerifyTelegramLogin(claims map[string]string, botToken string) error {
	if botToken == "" {
		return ErrBotTokenNotConfigured
	}
	received, ok := claims["hash"]
	if !ok || received == "" {
		return ErrHashMissing
	}
	expected := Sign(claims, botToken)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return ErrInvalidSignature
	}
	return nil
}
