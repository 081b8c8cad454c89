package depfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteSimpleRule(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "out.o", []string{"a.c", "b.h"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "out.o: a.c b.h\n"
	if got := buf.String(); got != want {
		t.Errorf("rule = %q, want %q", got, want)
	}
}

func TestQuoteForMake(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain.c", "plain.c"},
		{"sp ace.c", `sp\ ace.c`},
		{"tab\there", "tab\\\there"},
		{"$var.c", "$$var.c"},
		{`end\`, `end\\`},
		{`back\ slash`, `back\\\ slash`},
	}
	for _, tc := range cases {
		if got := quoteForMake(tc.in); got != tc.want {
			t.Errorf("quoteForMake(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteQuotesDependencies(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "out.o", []string{"has space.c"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `out.o: has\ space.c` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("rule = %q, want %q", got, want)
	}
}

func TestWriteWrapsLongRules(t *testing.T) {
	deps := make([]string, 8)
	for i := range deps {
		deps[i] = strings.Repeat("x", 25) + ".c"
	}

	var buf bytes.Buffer
	if err := Write(&buf, "out.o", deps); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, " \\\n ") {
		t.Fatal("expected continuation lines in long rule")
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSuffix(line, " \\")
		if len(line) > maxColumns {
			t.Errorf("line %q exceeds %d columns", line, maxColumns)
		}
	}

	// Unwrapping the continuations restores the plain rule.
	flat := strings.ReplaceAll(out, " \\\n ", " ")
	want := "out.o: " + strings.Join(deps, " ") + "\n"
	if flat != want {
		t.Errorf("unwrapped rule = %q, want %q", flat, want)
	}
}

func TestWriteEmptyNamesSkipped(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "out.o", []string{"", "a.c"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "out.o: a.c\n"
	if got := buf.String(); got != want {
		t.Errorf("rule = %q, want %q", got, want)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.d")
	if err := WriteFile(path, "out.o", []string{"a.c"}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got, want := string(data), "out.o: a.c\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestWriteFileBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.d")
	if err := WriteFile(path, "out.o", []string{"a.c"}); err == nil {
		t.Error("expected error for unwritable depfile path")
	}
}
