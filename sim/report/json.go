package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSONFile writes r as indented JSON at path.
func WriteJSONFile(path string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
