package main

import (
	"archive/zip"
	"os"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/report"
)

// writeOutputArchive builds the §6 output container: cleaned.<ext>,
// report.html, report.json for a single-file run.
func writeOutputArchive(outPath string, result *interfaces.CleanResult, assembler *report.Assembler) error {
	jsonBytes, err := assembler.BuildJSON(result.Report)
	if err != nil {
		return err
	}
	htmlBytes, err := assembler.BuildHTML(result.Report)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	ext := string(result.Cleaned.Format)
	entries := []struct {
		name string
		data []byte
	}{
		{"cleaned." + ext, result.Cleaned.Bytes},
		{"report.html", htmlBytes},
		{"report.json", jsonBytes},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return err
		}
		if _, err := w.Write(e.data); err != nil {
			return err
		}
	}
	return nil
}
