package deps

import (
	"testing"
)

func TestRegisterRequiresTracking(t *testing.T) {
	s := NewSession()
	if s.TrackingEnabled() {
		t.Fatal("new session should not track")
	}

	s.Register("ignored.c")
	if got := len(s.Dependencies()); got != 0 {
		t.Errorf("dependencies after disabled Register = %d, want 0", got)
	}

	s.EnableDocuments()
	if !s.TrackingEnabled() {
		t.Error("EnableDocuments should enable tracking")
	}
	s.Register("kept.c")
	if got := len(s.Dependencies()); got != 1 {
		t.Errorf("dependencies = %d, want 1", got)
	}
}

func TestSetDepFileEnablesTracking(t *testing.T) {
	s := NewSession()
	s.SetDepFile("out.d")
	if !s.TrackingEnabled() {
		t.Error("SetDepFile should enable tracking")
	}
	if got := s.DepFile(); got != "out.d" {
		t.Errorf("DepFile() = %q, want %q", got, "out.d")
	}
	if s.DocumentsEnabled() {
		t.Error("SetDepFile should not enable documents")
	}
}

func TestRegisterUnique(t *testing.T) {
	s := NewSession()
	s.EnableDocuments()

	s.Register("src/main.c")
	s.Register("src/main.c")
	if got := len(s.Dependencies()); got != 1 {
		t.Errorf("dependencies after duplicate Register = %d, want 1", got)
	}
}

func TestRegisterRedundantSeparators(t *testing.T) {
	s := NewSession()
	s.EnableDocuments()

	s.Register("src/main.c")
	s.Register("src//main.c")
	s.Register("./src/main.c")
	if got := len(s.Dependencies()); got != 1 {
		t.Errorf("dependencies = %d, want 1 (paths are filesystem-equal)", got)
	}
}

func TestRegisterPreservesOrder(t *testing.T) {
	s := NewSession()
	s.EnableDocuments()

	s.Register("b.h")
	s.Register("a.c")
	s.Register("c.inc")

	got := s.Dependencies()
	want := []string{"b.h", "a.c", "c.inc"}
	if len(got) != len(want) {
		t.Fatalf("dependencies = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dependencies[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewSession()
	s.SetDepFile("out.d")
	s.EnableDocuments()
	s.Register("a.c")
	s.AddNoteReference("a.c", "aa", "bb")

	s.Reset()

	if s.TrackingEnabled() {
		t.Error("tracking still enabled after Reset")
	}
	if s.DepFile() != "" {
		t.Error("dep file survived Reset")
	}
	if len(s.Dependencies()) != 0 {
		t.Error("registry survived Reset")
	}
	if len(s.records) != 0 {
		t.Error("digest cache survived Reset")
	}
	if len(s.notes) != 0 {
		t.Error("note table survived Reset")
	}
}
