package config

import (
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestFlagTracker_Basic(t *testing.T) {
	ft := NewFlagTracker()

	if ft.WasSet("window-size") {
		t.Error("Expected flag 'window-size' to not be set initially")
	}

	ft.Set("window-size")
	if !ft.WasSet("window-size") {
		t.Error("Expected flag 'window-size' to be set after Set()")
	}
	if ft.Count() != 1 {
		t.Errorf("Expected count to be 1, got %d", ft.Count())
	}
}

func TestFlagTracker_WithInitialFlags(t *testing.T) {
	initial := map[string]bool{
		"json":      true,
		"max-files": true,
		"yaml":      false,
	}

	ft := NewFlagTrackerWithFlags(initial)

	if !ft.WasSet("json") || !ft.WasSet("max-files") {
		t.Error("Expected json and max-files to be set")
	}
	if ft.WasSet("yaml") {
		t.Error("Expected yaml to not be set")
	}
	if ft.Count() != 2 {
		t.Errorf("Expected count 2, got %d", ft.Count())
	}

	// The tracker owns its own copy
	initial["csv"] = true
	if ft.WasSet("csv") {
		t.Error("Expected tracker to ignore changes to the initial map")
	}
}

func TestFlagTracker_FromFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	fs.Int("window-size", 6, "")
	fs.Int("max-files", 1000, "")
	fs.StringSlice("exclude", nil, "")

	if err := fs.Parse([]string{"--window-size", "8", "--exclude", "build/**"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	ft := NewFlagTrackerFromFlagSet(fs)
	if !ft.WasSet("window-size") || !ft.WasSet("exclude") {
		t.Errorf("Expected changed flags to be tracked, got %v", ft.GetAll())
	}
	if ft.WasSet("max-files") {
		t.Error("Expected untouched flag to not be tracked")
	}

	if NewFlagTrackerFromFlagSet(nil).Count() != 0 {
		t.Error("Expected empty tracker for nil flag set")
	}
}

func TestFlagTracker_Merge(t *testing.T) {
	ft := NewFlagTrackerWithFlags(map[string]bool{
		"format":       true,
		"window-size":  true,
		"read-rate":    true,
		"file-timeout": true,
		"exclude":      true,
		"stats":        true,
	})

	if got := ft.MergeString("text", "json", "format"); got != "json" {
		t.Errorf("MergeString: expected json, got %s", got)
	}
	if got := ft.MergeString("text", "json", "other"); got != "text" {
		t.Errorf("MergeString: expected base text, got %s", got)
	}
	if got := ft.MergeInt(6, 8, "window-size"); got != 8 {
		t.Errorf("MergeInt: expected 8, got %d", got)
	}
	if got := ft.MergeInt(6, 8, "max-files"); got != 6 {
		t.Errorf("MergeInt: expected base 6, got %d", got)
	}
	if got := ft.MergeFloat64(0, 2.5, "read-rate"); got != 2.5 {
		t.Errorf("MergeFloat64: expected 2.5, got %g", got)
	}
	if got := ft.MergeBool(false, true, "stats"); !got {
		t.Error("MergeBool: expected true")
	}
	if got := ft.MergeDuration(0, time.Second, "file-timeout"); got != time.Second {
		t.Errorf("MergeDuration: expected 1s, got %s", got)
	}

	// An explicitly empty slice clears the configured patterns
	got := ft.MergeStringSlice([]string{"venv/**"}, []string{}, "exclude")
	if len(got) != 0 {
		t.Errorf("MergeStringSlice: expected empty override, got %v", got)
	}
}

func TestFlagTracker_Concurrent(t *testing.T) {
	ft := NewFlagTracker()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ft.Set("json")
		}()
		go func() {
			defer wg.Done()
			_ = ft.WasSet("json")
			_ = ft.GetAll()
		}()
	}
	wg.Wait()

	if !ft.WasSet("json") {
		t.Error("Expected json to be set")
	}
}
