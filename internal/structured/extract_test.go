package structured

import "testing"

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare",
			input: `{"question": "text"}`,
			want:  `{"question": "text"}`,
		},
		{
			name:  "prose_wrapped",
			input: "Sure! Here is the JSON:\n{\"question\": \"text\"}\nHope that helps.",
			want:  `{"question": "text"}`,
		},
		{
			name:  "markdown_fenced",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "no_object",
			input: "nothing here",
			want:  "nothing here",
		},
		{
			name:  "only_open_brace",
			input: "{ truncated",
			want:  "{ truncated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractObject(tt.input); got != tt.want {
				t.Errorf("ExtractObject(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractArray(t *testing.T) {
	input := `Here you go: ["ANSWER: one", "ANSWER: two"] done`
	want := `["ANSWER: one", "ANSWER: two"]`
	if got := ExtractArray(input); got != want {
		t.Errorf("ExtractArray = %q, want %q", got, want)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "literal_newline_in_string",
			input: "{\"q\": \"line one\nline two\"}",
			want:  `{"q": "line one\nline two"}`,
		},
		{
			name:  "carriage_return_dropped",
			input: "{\"q\": \"a\r\nb\"}",
			want:  `{"q": "a\nb"}`,
		},
		{
			name:  "valid_escape_kept",
			input: `{"q": "say \"hi\""}`,
			want:  `{"q": "say \"hi\""}`,
		},
		{
			name:  "stray_backslash_dropped",
			input: `{"q": "bad \x escape"}`,
			want:  `{"q": "bad x escape"}`,
		},
		{
			name:  "newline_outside_string_untouched",
			input: "{\n\"q\": \"v\"\n}",
			want:  "{\n\"q\": \"v\"\n}",
		},
		{
			name:  "unicode_escape_kept",
			input: `{"q": "é"}`,
			want:  `{"q": "é"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
