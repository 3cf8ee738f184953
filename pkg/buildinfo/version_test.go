package buildinfo

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	i := Info{Version: "v1.2.3", Commit: "abc", Date: "2026-01-01"}
	want := "version: v1.2.3\ncommit: abc\nbuilt: 2026-01-01"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGetReflectsStamp(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v9.9.9"

	if got := Get().Version; got != "v9.9.9" {
		t.Errorf("Get().Version = %q, want v9.9.9", got)
	}
	if !strings.HasPrefix(Template(), "{{.Name}} v9.9.9 (commit ") {
		t.Errorf("Template() = %q", Template())
	}
}
