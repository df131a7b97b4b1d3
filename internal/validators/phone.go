package validators

import (
	"errors"
	"strings"
	"unicode"
)

const (
	DefaultCountryCode = "55"

	// DDI + DDD + número (ex.: 55 11 9xxxxxxxx)
	MinE164Digits = 12

	MinLocalDigits = 8
)

var ErrInvalidPhone = errors.New("invalid_phone")

// NormalizePhone mantém somente os dígitos
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsLocalPhoneValid(phone string) bool {
	return len(NormalizePhone(phone)) >= MinLocalDigits
}

// ToE164 prefixa o DDI quando ausente e rejeita destinos curtos demais.
func ToE164(raw, countryCode string) (string, error) {
	digits := NormalizePhone(raw)
	if digits == "" {
		return "", ErrInvalidPhone
	}

	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}

	if len(digits) < MinE164Digits {
		return "", ErrInvalidPhone
	}
	return "+" + digits, nil
}

// IsBlank ignora espaços
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
