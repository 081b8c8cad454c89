// Package depfile emits Make-style dependency rules: a target, a colon,
// and the input files the build consumed, quoted the way make expects
// and wrapped with backslash continuations.
package depfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// maxColumns is the wrap point for rule lines.
const maxColumns = 72

// quoteForMake renders a file name the way make wants it. Make's
// whitespace quoting is unusual: a space or tab preceded by 2N+1
// backslashes means N backslashes then the space; 2N backslashes before
// end-of-name mean N literal trailing backslashes; backslashes elsewhere
// are left alone. '$' must be doubled. Characters in "\n%*?[\\~" are not
// portably quotable and pass through unchanged.
func quoteForMake(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch c {
		case ' ', '\t':
			for j := i - 1; j >= 0 && name[j] == '\\'; j-- {
				out = append(out, '\\')
			}
			out = append(out, '\\', c)
		case '$':
			out = append(out, '$', '$')
		default:
			out = append(out, c)
		}
	}
	for j := len(name) - 1; j >= 0 && name[j] == '\\'; j-- {
		out = append(out, '\\')
	}
	return string(out)
}

// writer tracks the current output column so rule lines wrap before
// maxColumns with a " \" continuation.
type writer struct {
	w      *bufio.Writer
	column int
}

// writeWrapped appends one quoted name. spacer is ' ' for dependencies
// or ':' for the rule target.
func (dw *writer) writeWrapped(name string, spacer byte) {
	quoted := quoteForMake(name)
	if len(quoted) == 0 {
		return
	}

	// 1 for the spacer, 2 for the " \" continuation.
	if dw.column != 0 && maxColumns-1-2 < dw.column+len(quoted) {
		dw.w.WriteString(" \\\n ")
		dw.column = 0
		if spacer == ' ' {
			spacer = 0
		}
	}

	if spacer == ' ' {
		dw.w.WriteByte(spacer)
		dw.column++
	}

	dw.w.WriteString(quoted)
	dw.column += len(quoted)

	if spacer == ':' {
		dw.w.WriteByte(spacer)
		dw.column++
	}
}

// Write emits the dependency rule "target: dep1 dep2 ...\n" to w.
func Write(w io.Writer, target string, dependencies []string) error {
	dw := &writer{w: bufio.NewWriter(w)}
	dw.writeWrapped(target, ':')
	for _, dep := range dependencies {
		dw.writeWrapped(dep, ' ')
	}
	dw.w.WriteByte('\n')
	if err := dw.w.Flush(); err != nil {
		return fmt.Errorf("write depfile: %w", err)
	}
	return nil
}

// WriteFile writes the dependency rule to path, truncating any existing
// file. An open failure is returned for the caller to warn about; gas
// warns and carries on rather than failing the build.
func WriteFile(path, target string, dependencies []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open depfile %q: %w", path, err)
	}
	if err := Write(f, target, dependencies); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close depfile %q: %w", path, err)
	}
	return nil
}
