// -----------------------------------------------------------------------
// Orchestrator Interface - dispatches analyze/clean/rephrase flows
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/qualion/internal/models"
)

// AnalyzeResult is the in-memory result of the analyze pipeline, before
// report serialization.
type AnalyzeResult struct {
	Document   *models.Document
	Findings   []models.Finding
	Issues     []models.SpellingIssue
	Projection *models.TextProjection
	LLMUsed    bool
	Report     *models.Report
}

// CleanResult is the in-memory result of the clean pipeline: the cleaned
// document plus its report.
type CleanResult struct {
	Cleaned *models.Document
	Report  *models.Report
}

// Orchestrator composes the Container Adapter, Text Extractor, Detector
// Framework, Pattern Matcher, Proofreader, Scorer, Business Risk Engine,
// Cleaner, Applier, and Report Assembler into the request-level flows.
type Orchestrator interface {
	Analyze(ctx context.Context, doc *models.Document) (*AnalyzeResult, error)
	Clean(ctx context.Context, doc *models.Document, opts CleanOptions) (*CleanResult, error)
	Rephrase(ctx context.Context, doc *models.Document, opts CleanOptions) (*CleanResult, error)
}
