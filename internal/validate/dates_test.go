package validate

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestSanitizeDate(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		name   string
		raw    any
		want   string
		wantOK bool
	}{
		{
			name:   "plain ISO date",
			raw:    "2024-03-14",
			want:   "2024-03-14",
			wantOK: true,
		},
		{
			name:   "timestamp suffix stripped",
			raw:    "2024-03-14T15:04:05Z",
			want:   "2024-03-14",
			wantOK: true,
		},
		{
			name:   "space-separated time stripped",
			raw:    "2024-03-14 15:04",
			want:   "2024-03-14",
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			raw:    "  2024-01-02  ",
			want:   "2024-01-02",
			wantOK: true,
		},
		{
			name:   "previous year within window",
			raw:    "2023-12-31",
			want:   "2023-12-31",
			wantOK: true,
		},
		{
			name:   "too far in the past",
			raw:    "2022-12-31",
			wantOK: false,
		},
		{
			name:   "too far in the future",
			raw:    "2025-06-01",
			wantOK: false,
		},
		{
			name:   "unparseable text",
			raw:    "yesterday",
			wantOK: false,
		},
		{
			name:   "empty string",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "nil value",
			raw:    nil,
			wantOK: false,
		},
		{
			name:   "non-string value",
			raw:    20240314,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.sanitizeDate(tt.raw, testNow)
			if ok != tt.wantOK {
				t.Fatalf("sanitizeDate(%v) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("sanitizeDate(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRequiredDate_FallsBackToToday(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"valid date kept", "2024-03-10", "2024-03-10"},
		{"missing date becomes today", nil, "2024-03-15"},
		{"implausible date becomes today", "1999-01-01", "2024-03-15"},
		{"garbage becomes today", "not a date", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.requiredDate(tt.raw, testNow, "date")
			if got != tt.want {
				t.Errorf("requiredDate(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestOptionalDate(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"absent stays empty", nil, ""},
		{"empty string stays empty", "   ", ""},
		{"valid date kept", "2024-04-01", "2024-04-01"},
		{"present but implausible becomes today", "1980-01-01", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.optionalDate(tt.raw, testNow, "due_date")
			if got != tt.want {
				t.Errorf("optionalDate(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
