package autostart

import "testing"

// TestCommand verifies paths with spaces are quoted.
func TestCommand(t *testing.T) {
	got := Command(`C:\Program Files\Candela\candela.exe`, "serve")
	want := `"C:\Program Files\Candela\candela.exe" serve`
	if got != want {
		t.Fatalf("Command = %q, want %q", got, want)
	}
	if got := Command(`C:\bin\candela.exe`); got != `C:\bin\candela.exe` {
		t.Fatalf("unexpected command %q", got)
	}
}
