package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxClientNameLength      = 200
	MaxClientPlatformLength  = 100
	MaxJobDescriptionLength  = 10000
	MaxProposalContentLength = 20000
	MaxEmailLength           = 320
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email слишком длинный")
	}

	localPart, domainPart, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domainPart, "@") {
		return fmt.Errorf("некорректный формат email")
	}

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// IsBlank сообщает, что строка пуста или состоит из пробельных символов.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if IsBlank(value) {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateClientFields проверяет имя и площадку заказчика после обрезки пробелов.
func ValidateClientFields(name, platform string) error {
	if err := ValidateNonEmpty("name", name); err != nil {
		return err
	}
	if err := ValidateNonEmpty("platform", platform); err != nil {
		return err
	}
	if err := ValidateLength("name", strings.TrimSpace(name), 1, MaxClientNameLength); err != nil {
		return err
	}
	return ValidateLength("platform", strings.TrimSpace(platform), 1, MaxClientPlatformLength)
}

// ValidateJobDescription проверяет описание вакансии для генерации отклика.
func ValidateJobDescription(description string) error {
	if err := ValidateNonEmpty("job_description", description); err != nil {
		return err
	}
	return ValidateLength("job_description", description, 1, MaxJobDescriptionLength)
}

// ValidateProposalContent проверяет текст отклика перед сохранением.
func ValidateProposalContent(content string) error {
	if content == "" {
		return fmt.Errorf("content не может быть пустым")
	}
	return ValidateLength("content", content, 1, MaxProposalContentLength)
}
