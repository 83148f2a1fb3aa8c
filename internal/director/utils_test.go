package director

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateScenarioPath(t *testing.T) {
	path := GenerateScenarioPath()

	if !strings.Contains(filepath.Base(path), "scenario_") {
		t.Errorf("Path should contain 'scenario_': %s", path)
	}
	if filepath.Dir(path) != ScenariosDir {
		t.Errorf("Path should be in %s: %s", ScenariosDir, path)
	}
	if filepath.Ext(path) != ".yaml" {
		t.Errorf("Path should end with .yaml: %s", path)
	}

	t.Logf("Generated path: %s", path)
}
