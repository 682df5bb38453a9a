package formatting

import (
	"testing"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{
			name:     "simple object",
			input:    map[string]interface{}{"name": "test", "value": 42},
			expected: "{\n  \"name\": \"test\",\n  \"value\": 42\n}",
		},
		{
			name:     "array",
			input:    []string{"a", "b", "c"},
			expected: "[\n  \"a\",\n  \"b\",\n  \"c\"\n]",
		},
		{
			name:     "string",
			input:    "hello world",
			expected: "\"hello world\"",
		},
		{
			name:     "number",
			input:    123,
			expected: "123",
		},
		{
			name:     "boolean",
			input:    true,
			expected: "true",
		},
		{
			name:     "nil",
			input:    nil,
			expected: "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PrettyJSON(tt.input)
			if result != tt.expected {
				t.Errorf("PrettyJSON() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestPrettyJSON_FallsBackOnMarshalError(t *testing.T) {
	result := PrettyJSON(make(chan int))
	if result == "" || result[0] != '0' {
		t.Errorf("PrettyJSON() fallback = %q, want the %%v form of the channel", result)
	}
}

func TestSlotOf(t *testing.T) {
	if got := slotOf("content://com.android.systemui.keyguard/smartspace/weather"); got != "weather" {
		t.Errorf("slotOf() = %q, want weather", got)
	}
	if got := slotOf("plain"); got != "plain" {
		t.Errorf("slotOf() = %q, want plain", got)
	}
}
