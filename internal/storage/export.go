package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"visionary/internal/core/model"
)

// ExportFileName returns the default export file name for the date of now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("visionary_health_data_%s.json", model.DateKey(now))
}

// ExportJSON writes logs as indented JSON.
func ExportJSON(w io.Writer, logs []model.DailyLog) error {
	if logs == nil {
		logs = []model.DailyLog{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(logs); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ExportFile writes logs to path.
func ExportFile(path string, logs []model.DailyLog) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := ExportJSON(file, logs); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}
