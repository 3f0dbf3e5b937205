package report

import (
	"bytes"
	"html/template"

	"github.com/ternarybob/qualion/internal/models"
)

// reportTemplate is parsed once; the HTML report embeds its own styling
// inline so the output is self-contained per spec.md §4.10 (no external
// assets).
var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"scoreClass": scoreClass,
}).Parse(reportTemplateSource))

func scoreClass(score int) string {
	switch {
	case score >= 90:
		return "safe"
	case score >= 70:
		return "low"
	case score >= 50:
		return "medium"
	case score >= 25:
		return "high"
	default:
		return "critical"
	}
}

// BuildHTML renders the self-contained HTML report.
func (a *Assembler) BuildHTML(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const reportTemplateSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Document Inspection Report — {{.Meta.OriginalName}}</title>
<style>
body { font-family: -apple-system, Segoe UI, Roboto, sans-serif; margin: 2rem; color: #1a1a1a; }
h1 { font-size: 1.4rem; }
.score { display: inline-block; padding: 0.5rem 1rem; border-radius: 0.4rem; font-weight: bold; color: #fff; }
.score.safe { background: #1e8e3e; }
.score.low { background: #558b2f; }
.score.medium { background: #e8a33d; }
.score.high { background: #d9534f; }
.score.critical { background: #a61b1b; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { text-align: left; border-bottom: 1px solid #ddd; padding: 0.4rem 0.6rem; font-size: 0.9rem; }
th { background: #f5f5f5; }
.pass { color: #1e8e3e; }
.fail { color: #a61b1b; }
.section { margin-top: 2rem; }
</style>
</head>
<body>
<h1>Document Inspection Report</h1>
<p><strong>{{.Meta.OriginalName}}</strong> — generated {{.Meta.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} in {{.Meta.ProcessingTime}}</p>

<p>Technical risk score: <span class="score {{scoreClass .ScoreBefore}}">{{.ScoreBefore}}/100 ({{.Summary.RiskLevel}})</span>
{{if .ScoreAfter}} → after cleaning: <span class="score {{scoreClass .ScoreAfter}}">{{.ScoreAfter}}/100</span>{{end}}</p>

<p>Business risk score: <span class="score {{scoreClass .BusinessRisk.BusinessRiskScore}}">{{.BusinessRisk.BusinessRiskScore}}/100</span> —
client-ready: {{if .BusinessRisk.ClientReady}}<span class="pass">yes</span>{{else}}<span class="fail">no</span>{{end}}</p>

<p>{{.FileTypeContext}}</p>

<div class="section">
<h2>Technical Checklist</h2>
<table>
<tr><th>Check</th><th>Result</th><th>Detail</th></tr>
{{range .QualionCleanV1.Part1TechnicalChecklist}}
<tr><td>{{.Label}}</td><td>{{if .Passed}}<span class="pass">pass</span>{{else}}<span class="fail">fail</span>{{end}}</td><td>{{.Detail}}</td></tr>
{{end}}
</table>
</div>

<div class="section">
<h2>Business Risk Flags</h2>
<table>
<tr><th>Category</th><th>Level</th><th>Rule</th><th>Reason</th><th>Location</th></tr>
{{range .BusinessRisk.Flags}}
<tr><td>{{.Category}}</td><td>{{.Level}}</td><td>{{.RuleID}}</td><td>{{.Reason}}</td><td>{{.Location}}</td></tr>
{{end}}
</table>
</div>

{{if .CleaningStats}}
<div class="section">
<h2>Cleaning Summary</h2>
<ul>
<li>Metadata removed: {{.CleaningStats.MetadataRemoved}}</li>
<li>Comments removed: {{.CleaningStats.CommentsRemoved}}</li>
<li>Tracked changes resolved: {{.CleaningStats.TrackChangesUsed}}</li>
<li>Hidden content removed: {{.CleaningStats.HiddenRemoved}}</li>
<li>Embedded objects removed: {{.CleaningStats.EmbeddingsRemoved}}</li>
<li>Macros removed: {{.CleaningStats.MacrosRemoved}}</li>
<li>Sensitive data redacted: {{.CleaningStats.SensitiveRedacted}}</li>
</ul>
{{if .CleaningStats.Examples}}
<ul>{{range .CleaningStats.Examples}}<li>{{.}}</li>{{end}}</ul>
{{end}}
</div>
{{end}}

{{if .CorrectionStats}}
<div class="section">
<h2>Spelling Corrections</h2>
<p>{{.CorrectionStats.IssuesApplied}} of {{.CorrectionStats.IssuesConsidered}} considered issues applied, {{.CorrectionStats.IssuesSkipped}} skipped.
{{if .CorrectionStats.LLMUnavailable}} (LLM unavailable — suggestions skipped){{end}}</p>
</div>
{{end}}

</body>
</html>
`
