// -----------------------------------------------------------------------
// Detector Framework - concurrent detector execution, dedup, ordering
// -----------------------------------------------------------------------

package detectors

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// Framework runs a registered set of interfaces.Detector against a
// document, deduplicating by (category, location, value) and ordering the
// surviving findings by severity descending then by location.
type Framework struct {
	detectors []interfaces.Detector
	logger    arbor.ILogger
}

var _ interfaces.DetectorFramework = (*Framework)(nil)

// NewFramework builds an empty detector framework. Callers Register each
// detector before calling Run.
func NewFramework(logger arbor.ILogger) *Framework {
	return &Framework{logger: logger}
}

func (f *Framework) Register(d interfaces.Detector) {
	f.detectors = append(f.detectors, d)
}

// Run executes every registered detector concurrently. Detectors are pure
// and only read the adapter, so running them under an errgroup is safe;
// a single detector's error does not abort the others — it is logged and
// that detector simply contributes no findings (spec.md §7 detector-error
// recovery policy).
func (f *Framework) Run(ctx context.Context, adapter interfaces.ContainerAdapter, projection *models.TextProjection) ([]models.Finding, error) {
	results := make([][]models.Finding, len(f.detectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range f.detectors {
		i, d := i, d
		g.Go(func() error {
			findings, err := d.Detect(gctx, adapter, projection)
			if err != nil {
				f.logger.Warn().Err(err).Str("detector", d.Name()).Msg("detector failed, continuing without its findings")
				return nil
			}
			results[i] = findings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Finding
	for _, r := range results {
		all = append(all, r...)
	}

	return dedupeAndOrder(all), nil
}

func dedupeAndOrder(findings []models.Finding) []models.Finding {
	seen := make(map[string]bool, len(findings))
	out := make([]models.Finding, 0, len(findings))
	for _, fnd := range findings {
		key := fnd.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, fnd)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity.Rank() != out[j].Severity.Rank() {
			return out[i].Severity.Rank() > out[j].Severity.Rank()
		}
		return out[i].Location < out[j].Location
	})

	return out
}
