package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"-n", "4"}, false},
		{[]string{"--version"}, true},
		{[]string{"-n", "4", "-V"}, true},
		{[]string{"-version"}, true},
		{[]string{"--", "--version"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	out := buf.String()
	if !strings.HasPrefix(out, "matbench "+Version) {
		t.Errorf("banner should start with the program and version, got %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("banner should have two lines, got %q", out)
	}
}
