package validation

import (
	"fmt"
	"unicode"
)

// MinPasswordLength минимальная длина пароля.
const MinPasswordLength = 8

// ValidatePassword проверяет пароль: не короче MinPasswordLength, есть буквы и цифры.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("пароль должен содержать хотя бы одну букву")
	}
	if !hasNumber {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}
