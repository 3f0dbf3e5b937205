// -----------------------------------------------------------------------
// Cleaner - per-format selective removal, spec.md §4.7
// -----------------------------------------------------------------------

package cleaner

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// Cleaner implements interfaces.Cleaner. Each removal is best-effort and
// part-scoped: a single malformed part is logged and skipped rather than
// failing the whole clean (spec.md §7's ErrPartParse recovery policy).
//
// matcher is only needed for redactSensitive: Finding.Value carries a
// masked value, never the raw secret, so redaction re-runs the pattern
// matcher over each part's own text to find the literal span to replace.
type Cleaner struct {
	logger  arbor.ILogger
	matcher interfaces.PatternMatcher
}

var _ interfaces.Cleaner = (*Cleaner)(nil)

func New(logger arbor.ILogger, matcher interfaces.PatternMatcher) *Cleaner {
	return &Cleaner{logger: logger, matcher: matcher}
}

func (c *Cleaner) Clean(adapter interfaces.ContainerAdapter, findings []models.Finding, opts interfaces.CleanOptions) (models.CleaningStats, error) {
	stats := models.CleaningStats{}

	switch adapter.Document().Format {
	case models.FormatDOCX:
		c.cleanDOCX(adapter, opts, &stats)
	case models.FormatPPTX:
		c.cleanPPTX(adapter, opts, &stats)
	case models.FormatXLSX:
		c.cleanXLSX(adapter, findings, opts, &stats)
	case models.FormatPDF:
		c.cleanPDF(adapter, opts, &stats)
	}

	if len(opts.RemoveSensitiveDataIDs) > 0 {
		c.redactSensitive(adapter, findings, opts, &stats)
	}

	return stats, nil
}

func (c *Cleaner) warn(msg, part string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn().Err(err).Str("part", part).Msg(msg)
}

func addExample(stats *models.CleaningStats, example string) {
	if len(stats.Examples) >= 10 {
		return
	}
	stats.Examples = append(stats.Examples, truncate(example, 140))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
