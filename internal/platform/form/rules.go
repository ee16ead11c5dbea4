package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rule checks one field value and returns a user-facing message when the value
// is rejected, or "" when it is accepted.
type Rule func(label, value string) string

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// Required rejects blank values.
func Required() Rule {
	return func(label, value string) string {
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("Preencha o campo %s", label)
		}
		return ""
	}
}

// Email rejects values that do not look like an e-mail address. Blank values
// pass; combine with Required for mandatory addresses.
func Email() Rule {
	return func(label, value string) string {
		value = strings.TrimSpace(value)
		if value == "" || emailRegex.MatchString(value) {
			return ""
		}
		return fmt.Sprintf("O campo %s deve conter um e-mail válido", label)
	}
}

// Digits requires exactly n digits once punctuation is stripped.
func Digits(n int) Rule {
	return func(label, value string) string {
		if value == "" {
			return ""
		}
		if len(OnlyDigits(value)) != n {
			return fmt.Sprintf("O campo %s deve conter %d dígitos", label, n)
		}
		return ""
	}
}

// Phone accepts masked or raw landline (10 digits) and mobile (11 digits) numbers.
func Phone() Rule {
	return func(label, value string) string {
		if value == "" {
			return ""
		}
		if n := len(OnlyDigits(value)); n != 10 && n != 11 {
			return fmt.Sprintf("O campo %s deve conter um telefone com DDD", label)
		}
		return ""
	}
}

// Positive requires an integer greater than zero.
func Positive() Rule {
	return func(label, value string) string {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || n <= 0 {
			return fmt.Sprintf("O campo %s deve ser maior que zero", label)
		}
		return ""
	}
}

// OneOf restricts a non-blank value to the given options.
func OneOf(options ...string) Rule {
	return func(label, value string) string {
		if value == "" {
			return ""
		}
		for _, o := range options {
			if value == o {
				return ""
			}
		}
		return fmt.Sprintf("Valor inválido para o campo %s", label)
	}
}

// Date requires a YYYY-MM-DD date that is not in the future.
func Date() Rule {
	return func(label, value string) string {
		if value == "" {
			return ""
		}
		d, err := time.Parse(DateLayout, value)
		if err != nil {
			return fmt.Sprintf("O campo %s deve estar no formato AAAA-MM-DD", label)
		}
		if d.After(time.Now()) {
			return fmt.Sprintf("O campo %s não pode estar no futuro", label)
		}
		return ""
	}
}

// MaxLen caps the length of a value in characters.
func MaxLen(n int) Rule {
	return func(label, value string) string {
		if len([]rune(value)) > n {
			return fmt.Sprintf("O campo %s aceita no máximo %d caracteres", label, n)
		}
		return ""
	}
}
