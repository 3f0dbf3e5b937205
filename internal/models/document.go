// Package models defines the core data types for the document inspection
// and remediation pipeline: the document/part/segment types the Container
// Adapter and Text Extractor operate on, the Finding/SpellingIssue types
// detectors and the proofreader emit, and the Summary/BusinessFlag/Report
// types the scorer and report assembler produce.
package models

// Format is the closed set of container formats the engine understands.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPPTX Format = "pptx"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Document is the immutable input to a pipeline run. A cleaned result is a
// new Document produced by the Cleaner/Applier, never a mutation of this one.
type Document struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Format       Format `json:"format"`
	Bytes        []byte `json:"-"`
}

// DocumentStats summarizes the text projection and part layout of a
// document, captured before and after cleaning for the report.
type DocumentStats struct {
	PartCount      int `json:"part_count"`
	TextLength     int `json:"text_length"`
	WordCount      int `json:"word_count"`
	ParagraphCount int `json:"paragraph_count"`
	TableCount     int `json:"table_count"`
}
