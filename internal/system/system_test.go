package system

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindLatestScenario(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"scenario_2026-02-12_10-00-00.yaml",
		"scenario_2026-02-13_01-00-00.yml",
		"scenario_2026-02-11_15-30-00.yaml",
		"notes.txt",
	}
	base := time.Now().Add(-time.Hour)
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := FindLatestScenario(dir)
	if err != nil {
		t.Fatalf("FindLatestScenario failed: %v", err)
	}
	// notes.txt is newer but not a scenario
	if want := filepath.Join(dir, files[2]); latest != want {
		t.Errorf("Expected latest to be %s, got %s", want, latest)
	}
}

func TestFindLatestScenarioEmpty(t *testing.T) {
	if _, err := FindLatestScenario(t.TempDir()); err == nil {
		t.Error("expected an error for a directory without scenarios")
	}
	if _, err := FindLatestScenario(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 16, 8)

	img := p.Get(rect)
	if img.Bounds() != rect {
		t.Fatalf("expected %v, got %v", rect, img.Bounds())
	}
	p.Put(img)
	p.Put(nil)
	// an image of an unknown size is dropped, not pooled
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))

	other := p.Get(image.Rect(0, 0, 4, 4))
	if other.Bounds().Dx() != 4 {
		t.Errorf("expected a 4px wide image, got %v", other.Bounds())
	}
}

func TestCollectStats(t *testing.T) {
	st, err := CollectStats()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	if st.RSS == 0 {
		t.Error("expected a non-zero RSS")
	}
	if !strings.Contains(st.String(), "RSS:") {
		t.Errorf("unexpected report %q", st.String())
	}
	if DefaultWorkers() < 1 {
		t.Error("DefaultWorkers must be at least 1")
	}
}
