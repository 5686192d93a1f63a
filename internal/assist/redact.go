package assist

import "regexp"

var (
	emailPattern = regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+`)
	phonePattern = regexp.MustCompile(`\+?\p{Nd}[\p{Nd}\s\-()]{7,}\p{Nd}`)
)

// Redact masks e-mail and phone shaped text. It is a best effort pass.
func Redact(text string) string {
	text = emailPattern.ReplaceAllString(text, "[redacted-email]")
	return phonePattern.ReplaceAllString(text, "[redacted-phone]")
}
