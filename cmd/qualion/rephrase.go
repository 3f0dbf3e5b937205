package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/qualion/internal/llm"
	"github.com/ternarybob/qualion/internal/orchestrator"
	"github.com/ternarybob/qualion/internal/proofreader"
	"github.com/ternarybob/qualion/internal/report"
)

// runRephrase mirrors runClean and calls Orchestrator.Rephrase, which runs
// the same flow as Clean; the proofreader has no separate "rewrite for
// clarity" mode.
func runRephrase(args []string) {
	fs := flag.NewFlagSet("rephrase", flag.ExitOnError)
	cf := registerCleanFlags(fs)
	fs.Parse(args)

	if cf.input == "" {
		fmt.Fprintln(os.Stderr, "rephrase: -input is required")
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

	result, err := o.Rephrase(context.Background(), doc, cf.toCleanOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("rephrase failed")
	}

	assembler := report.New(log)
	if err := writeOutputArchive(cf.output, result, assembler); err != nil {
		log.Fatal().Err(err).Msg("failed to write output archive")
	}

	log.Info().Str("output", cf.output).Msg("rephrase complete")
}
