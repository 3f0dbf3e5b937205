package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/llm"
	"github.com/ternarybob/qualion/internal/orchestrator"
	"github.com/ternarybob/qualion/internal/proofreader"
	"github.com/ternarybob/qualion/internal/report"
)

// cleanFlags are shared between the clean and rephrase subcommands — the
// caller-supplied feature flags of spec.md §6's clean/rephrase request
// surface.
type cleanFlags struct {
	configFile            string
	input                 string
	output                string
	removeMetadata        bool
	removeComments        bool
	acceptTrackChanges    bool
	removeHiddenContent   bool
	removeEmbeddedObjects bool
	removeMacros          bool
	correctSpelling       bool
	drawPolicy            string
	pdfMode               string
	pdfDocx               bool
	formulaToValue        bool
}

func registerCleanFlags(fs *flag.FlagSet) *cleanFlags {
	cf := &cleanFlags{}
	fs.StringVar(&cf.configFile, "config", "", "configuration file path")
	fs.StringVar(&cf.input, "input", "", "path to the input document")
	fs.StringVar(&cf.output, "output", "cleaned.zip", "path to write the output archive")
	fs.BoolVar(&cf.removeMetadata, "remove-metadata", true, "remove document metadata")
	fs.BoolVar(&cf.removeComments, "remove-comments", true, "remove reviewer comments")
	fs.BoolVar(&cf.acceptTrackChanges, "accept-track-changes", true, "accept all tracked changes")
	fs.BoolVar(&cf.removeHiddenContent, "remove-hidden-content", true, "remove hidden content and hidden sheets")
	fs.BoolVar(&cf.removeEmbeddedObjects, "remove-embedded-objects", false, "remove embedded objects")
	fs.BoolVar(&cf.removeMacros, "remove-macros", true, "remove macros")
	fs.BoolVar(&cf.correctSpelling, "correct-spelling", false, "apply approved spelling corrections")
	fs.StringVar(&cf.drawPolicy, "draw-policy", "auto", "draw policy: none|auto|all")
	fs.StringVar(&cf.pdfMode, "pdf-mode", "sanitize", "pdf mode: sanitize|text-only")
	fs.BoolVar(&cf.pdfDocx, "pdf-docx", false, "accepted but unused: PDF input is always cleaned as PDF, with no DOCX conversion")
	fs.BoolVar(&cf.formulaToValue, "formula-to-value", false, "replace every worksheet formula with its cached value")
	return cf
}

func (cf *cleanFlags) toCleanOptions() interfaces.CleanOptions {
	return interfaces.CleanOptions{
		RemoveMetadata:        cf.removeMetadata,
		RemoveComments:        cf.removeComments,
		AcceptTrackChanges:    cf.acceptTrackChanges,
		RemoveHiddenContent:   cf.removeHiddenContent,
		RemoveEmbeddedObjects: cf.removeEmbeddedObjects,
		RemoveMacros:          cf.removeMacros,
		CorrectSpelling:       cf.correctSpelling,
		DrawPolicy:            interfaces.DrawPolicy(cf.drawPolicy),
		PDFMode:               interfaces.PDFMode(cf.pdfMode),
		PDFDocx:               cf.pdfDocx,
		FormulaToValue:        cf.formulaToValue,
	}
}

func runClean(args []string) {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	cf := registerCleanFlags(fs)
	fs.Parse(args)

	if cf.input == "" {
		fmt.Fprintln(os.Stderr, "clean: -input is required")
		os.Exit(2)
	}

	cfg, log := setup(cf.configFile)

	doc, err := loadDocument(cf.input)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load input document")
	}

	llmService, err := llm.NewProvider(cfg.LLM, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	pf := proofreader.New(llmService, log)
	o := orchestrator.New(pf, log)

	result, err := o.Clean(context.Background(), doc, cf.toCleanOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("clean failed")
	}

	assembler := report.New(log)
	if err := writeOutputArchive(cf.output, result, assembler); err != nil {
		log.Fatal().Err(err).Msg("failed to write output archive")
	}

	log.Info().
		Str("output", cf.output).
		Int("scoreBefore", result.Report.ScoreBefore).
		Msg("clean complete")
}
