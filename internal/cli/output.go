package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gelseq/internal/models"
	"gelseq/pkg/visualization"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// saveImageOutputs writes <name>.json and, when present or enabled, the
// chromatogram and nucleotide map of one image into dir.
func saveImageOutputs(dir string, r *models.ImageReport, saveMap bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := strings.TrimSuffix(r.Filename, filepath.Ext(r.Filename))

	if r.Chromatogram != nil {
		path := filepath.Join(dir, base+"_chromatogram.png")
		if err := os.WriteFile(path, r.Chromatogram, 0644); err != nil {
			return fmt.Errorf("failed to save chromatogram: %w", err)
		}
		// The PNG is on disk; keep the JSON readable
		r.Chromatogram = nil
	}

	if saveMap && r.Map != nil {
		path := filepath.Join(dir, base+"_map.png")
		if err := visualization.NewViewer(r.Map).Save(path); err != nil {
			return fmt.Errorf("failed to save nucleotide map: %w", err)
		}
	}

	f, err := os.Create(filepath.Join(dir, base+".json"))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	if err := writeJSON(f, r); err != nil {
		return err
	}
	return f.Close()
}
