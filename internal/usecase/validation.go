package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxEmailLength     = 255
	MaxSourceLength    = 50
	MaxMetadataLength  = 1000
	MinFormElapsedMs   = 800
	DefaultLeadSource  = "website"
	emptyMetadataValue = "{}"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CheckBotSignals returns the first bot heuristic the submission trips, or nil.
func CheckBotSignals(input SubmitLeadInput) *ValidationError {
	if input.Honeypot != "" {
		return &ValidationError{"website_url", "must be empty"}
	}
	if input.ElapsedMs != nil && *input.ElapsedMs < MinFormElapsedMs {
		return &ValidationError{"elapsed_ms", fmt.Sprintf("must be at least %d", MinFormElapsedMs)}
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail expects an already normalized address.
func ValidateEmail(email string) *ValidationError {
	if email == "" {
		return &ValidationError{"email", "is required"}
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return &ValidationError{"email", fmt.Sprintf("must not exceed %d characters", MaxEmailLength)}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{"email", "is invalid"}
	}
	return nil
}

func NormalizeSource(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return DefaultLeadSource
	}
	if utf8.RuneCountInString(source) > MaxSourceLength {
		source = string([]rune(source)[:MaxSourceLength])
	}
	return source
}

// NormalizeMetadata keeps metadata only when it is a JSON object of at most
// MaxMetadataLength serialized characters. Anything else becomes {}.
func NormalizeMetadata(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return json.RawMessage(emptyMetadataValue)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return json.RawMessage(emptyMetadataValue)
	}
	if utf8.RuneCount(compact.Bytes()) > MaxMetadataLength {
		return json.RawMessage(emptyMetadataValue)
	}
	return json.RawMessage(compact.Bytes())
}
