package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/fitai/fitai/internal/validation"
)

var validate = validation.New()

var errEmptyContent = errors.New("empty generated content")

// DecodeJSON unmarshals generated content into dst and runs struct
// validation on it. Any failure is a KindParse GenerationError.
func DecodeJSON(content string, dst any) error {
	body := stripCodeFence(content)
	if body == "" {
		return ParseFailure(errEmptyContent)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(dst); err != nil {
		return ParseFailure(err)
	}
	if dec.More() {
		return ParseFailure(errors.New("trailing data after JSON document"))
	}

	if err := validate.Struct(dst); err != nil {
		return ParseFailure(errors.New(validation.Message(err)))
	}
	return nil
}

// stripCodeFence removes a surrounding markdown fence such as ```json ... ```.
func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
