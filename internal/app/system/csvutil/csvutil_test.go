package csvutil

import (
	"bytes"
	"testing"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Kisoro", "Kisoro"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+256", "'+256"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"a=b", "a=b"},
	}
	for _, tt := range tests {
		if got := SanitizeField(tt.in); got != tt.want {
			t.Errorf("SanitizeField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	cw, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := cw.Write([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	cw.Flush()

	want := "\xEF\xBB\xBFa,b\r\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
