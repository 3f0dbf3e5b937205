package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/llm"
	"github.com/ternarybob/qualion/internal/models"
	"github.com/ternarybob/qualion/internal/orchestrator"
	"github.com/ternarybob/qualion/internal/proofreader"
	"github.com/ternarybob/qualion/internal/report"
)

// formatForExt maps a file extension to the closed set of supported
// container formats.
func formatForExt(path string) (models.Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "docx":
		return models.FormatDOCX, nil
	case "pptx":
		return models.FormatPPTX, nil
	case "xlsx":
		return models.FormatXLSX, nil
	case "pdf":
		return models.FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: unrecognized extension %q", common.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func loadDocument(path string) (*models.Document, error) {
	format, err := formatForExt(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &models.Document{
		ID:           common.NewDocumentID(),
		OriginalName: filepath.Base(path),
		Format:       format,
		Bytes:        raw,
	}, nil
}

func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configFile := fs.String("config", "", "configuration file path")
	input := fs.String("input", "", "path to the input document")
	output := fs.String("output", "report.json", "path to write the JSON report")
	fs.Parse(args)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "analyze: -input is required")
		os.Exit(2)
	}

	cfg, log := setup(*configFile)

	doc, err := loadDocument(*input)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load input document")
	}

	llmService, err := llm.NewProvider(cfg.LLM, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	pf := proofreader.New(llmService, log)
	o := orchestrator.New(pf, log)

	result, err := o.Analyze(context.Background(), doc)
	if err != nil {
		log.Fatal().Err(err).Msg("analyze failed")
	}

	assembler := report.New(log)
	out, err := assembler.BuildJSON(result.Report)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build JSON report")
	}

	if err := os.WriteFile(*output, out, 0644); err != nil {
		log.Fatal().Err(err).Msg("failed to write report")
	}

	log.Info().
		Str("output", *output).
		Int("riskScore", result.Report.ScoreBefore).
		Str("riskLevel", string(result.Report.Summary.RiskLevel)).
		Msg("analyze complete")
}
