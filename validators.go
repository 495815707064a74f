package auth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	unsafeStrip   = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")
	brazilianDDDs = map[string]bool{}
)

func init() {
	for _, ddd := range []string{
		"11", "12", "13", "14", "15", "16", "17", "18", "19",
		"21", "22", "24", "27", "28",
		"31", "32", "33", "34", "35", "37", "38",
		"41", "42", "43", "44", "45", "46", "47", "48", "49",
		"51", "53", "54", "55",
		"61", "62", "63", "64", "65", "66", "67", "68", "69",
		"71", "73", "74", "75", "77", "79",
		"81", "82", "83", "84", "85", "86", "87", "88", "89",
		"91", "92", "93", "94", "95", "96", "97", "98", "99",
	} {
		brazilianDDDs[ddd] = true
	}
}

// ValidationError carries the full list of field violations from a payload
// check. Validation failure is an expected outcome, so it travels as a value
// rather than a panic or a single truncated message.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// ValidationResult is the aggregate outcome of a payload validation; Errors
// lists every violated rule, never only the first one.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Err returns nil for a valid result, otherwise a *ValidationError carrying
// all violations.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Violations: r.Errors}
}

func newResult(errs []string) ValidationResult {
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidEmail checks the address against a permissive RFC-like pattern with a
// TLD of at least two characters.
func ValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// CleanCPF strips every non digit character from a CPF string.
func CleanCPF(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

// ValidCPF validates a Brazilian CPF: digits-only normalization, length 11,
// not an all-repeated sequence, and both mod-11 check digits.
func ValidCPF(cpf string) bool {
	cpf = CleanCPF(cpf)

	if len(cpf) != 11 {
		return false
	}

	if cpf == strings.Repeat(string(cpf[0]), 11) {
		return false
	}

	// First check digit: weights 10 down to 2 over the nine leading digits.
	sum1 := 0
	for i := 0; i < 9; i++ {
		sum1 += int(cpf[i]-'0') * (10 - i)
	}
	digit1 := 11 - (sum1 % 11)
	if digit1 >= 10 {
		digit1 = 0
	}

	// Second check digit: weights 11 down to 2 over the ten leading digits.
	// The ranges are deliberately asymmetric; that is how the registry
	// defines them.
	sum2 := 0
	for i := 0; i < 10; i++ {
		sum2 += int(cpf[i]-'0') * (11 - i)
	}
	digit2 := 11 - (sum2 % 11)
	if digit2 >= 10 {
		digit2 = 0
	}

	return int(cpf[9]-'0') == digit1 && int(cpf[10]-'0') == digit2
}

// ValidPhone validates a Brazilian phone number: 10 or 11 digits after
// normalization, with a recognized area code prefix.
func ValidPhone(phone string) bool {
	phone = nonDigits.ReplaceAllString(phone, "")

	if len(phone) != 10 && len(phone) != 11 {
		return false
	}

	return brazilianDDDs[phone[:2]]
}

// ValidatePassword returns every violated strength rule so the caller can
// present all of them at once. An empty slice means the password is valid.
func ValidatePassword(password string) []string {
	if password == "" {
		return []string{"Password is required"}
	}

	var errs []string

	// Length bounds count characters, not bytes.
	if utf8.RuneCountInString(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if !upperPattern.MatchString(password) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !lowerPattern.MatchString(password) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		errs = append(errs, "Password must contain at least one number")
	}

	return errs
}

// SanitizeString trims whitespace and strips angle brackets and quotes from
// free text before storage. Non string values are coerced to their string
// form; nil becomes the empty string.
func SanitizeString(value any) string {
	if value == nil {
		return ""
	}

	s, ok := value.(string)
	if !ok {
		s = fmt.Sprintf("%v", value)
	}

	return unsafeStrip.Replace(strings.TrimSpace(s))
}

// NormalizeEmail lowercases and trims an email address so uniqueness is
// case insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
