// Package extract pulls structured fields out of free-text LLM completions.
//
// Model output is untrusted: the JSON object we asked for may be wrapped in
// prose or code fences, keys may be missing, values may be empty. The
// contract here degrades gracefully to caller-supplied sentinel defaults
// rather than halting a pipeline for one bad field; only a wholly absent or
// syntactically invalid object is an error.
package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoJSON reports that the text contains no balanced {...} span.
var ErrNoJSON = eris.New("extract: no JSON object found")

// ErrMalformed reports that the located span failed to parse as JSON.
var ErrMalformed = eris.New("extract: malformed JSON object")

// Span returns the first '{' .. last '}' substring of text, or ErrNoJSON.
func Span(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// Fields extracts a flat string-valued object from text. For each key in
// schema, the schema's default is substituted when the key is absent, null,
// or empty. Pure function: applying it twice to the same text yields the
// same result.
func Fields(text string, schema map[string]string) (map[string]string, error) {
	span, err := Span(text)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, ErrMalformed
	}

	out := make(map[string]string, len(schema))
	for key, def := range schema {
		val := coerceString(raw[key])
		if strings.TrimSpace(val) == "" {
			val = def
		}
		out[key] = val
	}
	return out, nil
}

// Categorization is one entry of the batch categorizer's response array.
// ContactNumber is 1-based, matching batch order.
type Categorization struct {
	ContactNumber int    `json:"contactNumber"`
	Category      string `json:"category"`
	Reason        string `json:"reason"`
}

// Categorizations extracts the {"categorizations": [...]} array from text.
// An object without the array (or with an empty one) is an ErrMalformed:
// the batch controller treats it as a batch-level failure and falls back
// to per-contact retries.
func Categorizations(text string) ([]Categorization, error) {
	span, err := Span(text)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Categorizations []Categorization `json:"categorizations"`
	}
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, ErrMalformed
	}
	if len(raw.Categorizations) == 0 {
		return nil, ErrMalformed
	}
	return raw.Categorizations, nil
}

// coerceString renders scalar JSON values as strings. Objects, arrays and
// null all coerce to "" so the schema default applies.
func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
