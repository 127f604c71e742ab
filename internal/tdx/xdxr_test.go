package tdx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadXdxrFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xdxr.csv")
	content := "symbol,date,cash,bonus,dispatch,split,price\n" +
		"sh600000,2024-01-03,1.0,0,0,,0\n" +
		"sz000001,2024-03-04,0,10,0,1,0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	events, err := ReadXdxrFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events=%d want=2", len(events))
	}
	if events[0].Symbol != "sh600000" || events[0].Cash != 1.0 {
		t.Fatalf("first event=%+v", events[0])
	}
	// Empty split column falls back to 1.
	if events[0].SplitFactor != 1 {
		t.Fatalf("splitFactor=%v want=1", events[0].SplitFactor)
	}
	if events[1].Bonus != 10 {
		t.Fatalf("second event=%+v", events[1])
	}
}

func TestReadXdxrFileMissingIsNotAnError(t *testing.T) {
	events, err := ReadXdxrFile(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("err=%v want nil for missing file", err)
	}
	if events != nil {
		t.Fatalf("events=%v want nil", events)
	}
}
