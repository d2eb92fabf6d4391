package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{
			name: "bare_object",
			text: `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "prose_wrapped",
			text: "Here is the result:\n{\"a\": 1}\nLet me know if you need more.",
			want: `{"a": 1}`,
		},
		{
			name: "code_fenced",
			text: "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "nested_braces",
			text: `before {"outer": {"inner": 2}} after`,
			want: `{"outer": {"inner": 2}}`,
		},
		{
			name:    "no_object",
			text:    "I could not produce any structured output.",
			wantErr: ErrNoJSON,
		},
		{
			name:    "reversed_braces",
			text:    "} nothing here {",
			wantErr: ErrNoJSON,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: ErrNoJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Span(tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFields(t *testing.T) {
	schema := map[string]string{
		"phone":    "Not found",
		"website":  "Not found",
		"industry": "Not found",
	}

	tests := []struct {
		name    string
		text    string
		want    map[string]string
		wantErr error
	}{
		{
			name: "all_present",
			text: `{"phone": "+15551234567", "website": "https://acme.com", "industry": "Manufacturing"}`,
			want: map[string]string{
				"phone":    "+15551234567",
				"website":  "https://acme.com",
				"industry": "Manufacturing",
			},
		},
		{
			name: "missing_key_gets_default",
			text: `{"phone": "+15551234567"}`,
			want: map[string]string{
				"phone":    "+15551234567",
				"website":  "Not found",
				"industry": "Not found",
			},
		},
		{
			name: "empty_and_null_get_default",
			text: `{"phone": "", "website": null, "industry": "   "}`,
			want: map[string]string{
				"phone":    "Not found",
				"website":  "Not found",
				"industry": "Not found",
			},
		},
		{
			name: "scalar_coercion",
			text: `{"phone": 5551234567, "website": true, "industry": "Tech"}`,
			want: map[string]string{
				"phone":    "5551234567",
				"website":  "true",
				"industry": "Tech",
			},
		},
		{
			name: "nested_value_coerces_to_default",
			text: `{"phone": {"number": "555"}, "website": ["a"], "industry": "Tech"}`,
			want: map[string]string{
				"phone":    "Not found",
				"website":  "Not found",
				"industry": "Tech",
			},
		},
		{
			name:    "no_json",
			text:    "sorry, no data",
			wantErr: ErrNoJSON,
		},
		{
			name:    "malformed_json",
			text:    `{"phone": "555",}`,
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fields(tt.text, schema)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldsIdempotent(t *testing.T) {
	schema := map[string]string{"phone": "Not found"}
	text := `prefix {"phone": "+15551234567"} suffix`

	first, err := Fields(text, schema)
	require.NoError(t, err)
	second, err := Fields(text, schema)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCategorizations(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantLen int
		wantErr error
	}{
		{
			name: "success",
			text: `Result: {"categorizations": [
				{"contactNumber": 1, "category": "Champion", "reason": "strong network"},
				{"contactNumber": 2, "category": "Other", "reason": "unrelated"}
			]}`,
			wantLen: 2,
		},
		{
			name:    "empty_array",
			text:    `{"categorizations": []}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "missing_array",
			text:    `{"results": []}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "no_json",
			text:    "no structured output",
			wantErr: ErrNoJSON,
		},
		{
			name:    "malformed",
			text:    `{"categorizations": [}`,
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Categorizations(tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, 1, got[0].ContactNumber)
			assert.Equal(t, "Champion", got[0].Category)
		})
	}
}
