package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	loginRe        = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё0-9][A-Za-zА-Яа-яЁё0-9-_.!@#$%^&*()+=-]{3,20}[A-Za-zА-Яа-яЁё0-9]$`)
	passwordRe     = regexp.MustCompile(`^[a-zA-ZА-Яа-яЁё0-9!@#$%^&*()_+=-]{8,16}$`)
	roomPasswordRe = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*()_+=-]{4,32}$`)
)

func ValidateLogin(login string) bool {
	return loginRe.MatchString(login)
}

func ValidatePassword(password string) bool {
	return passwordRe.MatchString(password)
}

// ValidateRoomPassword accepts the short shared secrets used for private rooms.
func ValidateRoomPassword(password string) bool {
	return roomPasswordRe.MatchString(password)
}

// ValidateDeckName requires a non-blank name of at most maxLen characters.
func ValidateDeckName(name string, maxLen int) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	return utf8.RuneCountInString(name) <= maxLen
}
