// Package orchestrator composes the Container Adapter, Text Extractor,
// Detector Framework, Pattern Matcher, Proofreader, Scorer, Business Risk
// Engine, Cleaner, Applier, and Report Assembler into the request-level
// analyze/clean/rephrase flows of spec.md §2/§6, the way the teacher's
// internal/app.App composes its own services.
package orchestrator

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/applier"
	"github.com/ternarybob/qualion/internal/cleaner"
	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/container"
	"github.com/ternarybob/qualion/internal/detectors"
	"github.com/ternarybob/qualion/internal/extractor"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
	"github.com/ternarybob/qualion/internal/patterns"
	"github.com/ternarybob/qualion/internal/report"
	"github.com/ternarybob/qualion/internal/risk"
)

// Orchestrator implements interfaces.Orchestrator. Every dependency is a
// concrete package constructor rather than an injected interface because
// the orchestrator is the pipeline's single composition root — nothing
// downstream needs to swap these out.
type Orchestrator struct {
	matcher     interfaces.PatternMatcher
	proofreader interfaces.Proofreader
	scorer      interfaces.Scorer
	businessRisk interfaces.BusinessRiskEngine
	cleaner     interfaces.Cleaner
	applier     interfaces.TextApplier
	assembler   *report.Assembler
	logger      arbor.ILogger
}

var _ interfaces.Orchestrator = (*Orchestrator)(nil)

// New wires the pipeline's stateless services. proofreader may have a
// nil LLM (prefilter-only mode); see internal/llm.NewProvider.
func New(proofreader interfaces.Proofreader, logger arbor.ILogger) *Orchestrator {
	matcher := patterns.NewMatcher()
	return &Orchestrator{
		matcher:      matcher,
		proofreader:  proofreader,
		scorer:       risk.NewScorer(),
		businessRisk: risk.New(),
		cleaner:      cleaner.New(logger, matcher),
		applier:      applier.New(logger),
		assembler:    report.New(logger),
		logger:       logger,
	}
}

// pipeline is the shared analyze-phase state both Clean and Rephrase
// build their own flows on top of.
type pipeline struct {
	adapter    interfaces.ContainerAdapter
	projection *models.TextProjection
	findings   []models.Finding
	issues     []models.SpellingIssue
	llmUsed    bool
	before     models.Summary
	businessRisk models.BusinessRisk
	docStats   models.DocumentStats
}

func (o *Orchestrator) runAnalysis(ctx context.Context, doc *models.Document) (*pipeline, error) {
	adapter, err := container.Open(doc)
	if err != nil {
		return nil, err
	}

	extr, err := extractor.New(doc.Format, o.logger)
	if err != nil {
		return nil, err
	}

	projection, err := extr.Extract(adapter)
	if err != nil {
		return nil, err
	}
	docStats := extr.Stats(adapter, projection)

	framework := detectors.NewFramework(o.logger)
	framework.Register(&detectors.MetadataDetector{})
	framework.Register(&detectors.CommentsDetector{})
	framework.Register(&detectors.TrackedChangesDetector{})
	framework.Register(&detectors.HiddenDetector{})
	framework.Register(&detectors.SensitiveFormulasDetector{})
	framework.Register(&detectors.EmbeddedObjectsDetector{})
	framework.Register(&detectors.MacrosDetector{})
	framework.Register(&detectors.VisualObjectsDetector{})
	framework.Register(&detectors.OrphanDetector{})
	framework.Register(detectors.NewSensitiveDataDetector(o.matcher))
	framework.Register(detectors.NewSpellingDetector(o.proofreader))

	findings, err := framework.Run(ctx, adapter, projection)
	if err != nil {
		return nil, err
	}

	issues, llmUsed, err := o.proofreader.Proofread(ctx, projection.Text)
	if err != nil {
		o.logger.Warn().Err(err).Msg("proofreader failed, continuing without spelling issues")
	}

	before := o.scorer.ScoreBefore(findings)
	businessRisk := o.businessRisk.Assess(findings, projection.Text)

	return &pipeline{
		adapter:      adapter,
		projection:   projection,
		findings:     findings,
		issues:       issues,
		llmUsed:      llmUsed,
		before:       before,
		businessRisk: businessRisk,
		docStats:     docStats,
	}, nil
}

// Analyze runs the read-only analyze flow: Adapter → Extractor →
// Detectors → Pattern Matcher → Proofreader → Scorer → Business Risk
// Engine → Report Assembler.
func (o *Orchestrator) Analyze(ctx context.Context, doc *models.Document) (*interfaces.AnalyzeResult, error) {
	start := time.Now()
	p, err := o.runAnalysis(ctx, doc)
	if err != nil {
		return nil, err
	}

	rpt := o.buildReport(doc, p, start, nil, nil, nil)

	return &interfaces.AnalyzeResult{
		Document:   doc,
		Findings:   p.findings,
		Issues:     p.issues,
		Projection: p.projection,
		LLMUsed:    p.llmUsed,
		Report:     rpt,
	}, nil
}

// Clean runs analyze, then selectively removes/redacts per opts, applies
// any approved spelling corrections, rescans for the after-score, and
// assembles the final report.
func (o *Orchestrator) Clean(ctx context.Context, doc *models.Document, opts interfaces.CleanOptions) (*interfaces.CleanResult, error) {
	return o.clean(ctx, doc, opts)
}

// Rephrase runs the same flow as Clean. The proofreader has no separate
// "rewrite for clarity" mode, so for the same options the result matches
// Clean's.
func (o *Orchestrator) Rephrase(ctx context.Context, doc *models.Document, opts interfaces.CleanOptions) (*interfaces.CleanResult, error) {
	return o.clean(ctx, doc, opts)
}

func (o *Orchestrator) clean(ctx context.Context, doc *models.Document, opts interfaces.CleanOptions) (*interfaces.CleanResult, error) {
	start := time.Now()
	p, err := o.runAnalysis(ctx, doc)
	if err != nil {
		return nil, err
	}

	cleaningStats, err := o.cleaner.Clean(p.adapter, p.findings, opts)
	if err != nil {
		return nil, err
	}

	correctionStats, err := o.applyApprovedSpelling(p, opts)
	if err != nil {
		return nil, err
	}

	afterScore := o.scorer.ScoreAfter(p.before, cleaningStats, correctionStats)

	cleanedBytes, err := p.adapter.Save()
	if err != nil {
		return nil, err
	}
	cleaned := &models.Document{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		Format:       doc.Format,
		Bytes:        cleanedBytes,
	}

	rpt := o.buildReport(doc, p, start, &cleaningStats, &correctionStats, &afterScore)

	return &interfaces.CleanResult{Cleaned: cleaned, Report: rpt}, nil
}

// applyApprovedSpelling converts the caller-approved subset of proofreader
// issues into Applier edits and runs them against the document's text
// projection, strictly sequentially per spec.md §5.
func (o *Orchestrator) applyApprovedSpelling(p *pipeline, opts interfaces.CleanOptions) (models.CorrectionStats, error) {
	stats := models.CorrectionStats{}
	if !opts.CorrectSpelling || len(opts.ApprovedSpellingIDs) == 0 {
		return stats, nil
	}

	approved := make(map[string]bool, len(opts.ApprovedSpellingIDs))
	for _, id := range opts.ApprovedSpellingIDs {
		approved[id] = true
	}

	var edits []interfaces.Edit
	for _, issue := range p.issues {
		if !approved[issue.ID] {
			continue
		}
		stats.IssuesConsidered++
		edits = append(edits, interfaces.Edit{
			Error:         issue.Error,
			Replacement:   issue.Correction,
			ContextBefore: issue.ContextBefore,
			ContextAfter:  issue.ContextAfter,
			StartOffset:   issue.StartIndex,
			EndOffset:     issue.EndIndex,
		})
	}
	if len(edits) == 0 {
		return stats, nil
	}

	applyStats, err := o.applier.Apply(p.adapter, p.projection, edits)
	if err != nil {
		return stats, err
	}

	stats.IssuesApplied = applyStats.NodesChanged
	stats.IssuesSkipped = stats.IssuesConsidered - applyStats.NodesChanged
	for _, ex := range applyStats.Examples {
		stats.Examples = append(stats.Examples, ex.Before+" -> "+ex.After)
	}
	return stats, nil
}

func (o *Orchestrator) buildReport(doc *models.Document, p *pipeline, start time.Time, cleaning *models.CleaningStats, correction *models.CorrectionStats, afterScore *int) *models.Report {
	rpt := &models.Report{
		Meta: models.ReportMeta{
			ReportID:       common.NewReportID(),
			DocumentID:     doc.ID,
			OriginalName:   doc.OriginalName,
			GeneratedAt:    start,
			ProcessingTime: time.Since(start).String(),
		},
		Summary:             p.before,
		DocumentStatsBefore: p.docStats,
		SpellingIssues:      p.issues,
		ScoreBefore:         p.before.RiskScore,
		BusinessRisk:        p.businessRisk,
		CleaningStats:       cleaning,
		CorrectionStats:     correction,
		ScoreAfter:          afterScore,
		LLMUnavailable:      !p.llmUsed,
	}
	o.assembler.Assemble(doc.Format, p.findings, rpt)
	return rpt
}
