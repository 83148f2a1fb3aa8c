package director

import (
	"fmt"
	"path/filepath"
	"time"
)

// ScenariosDir is where generated scenarios are stored
var ScenariosDir = filepath.Join("input", "scenarios")

// GenerateScenarioPath creates a timestamped scenario filename
func GenerateScenarioPath() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(ScenariosDir, fmt.Sprintf("scenario_%s.yaml", timestamp))
}
