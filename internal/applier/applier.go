// -----------------------------------------------------------------------
// Anchored Text Applier - spec.md §4.6, the hardest subsystem.
// -----------------------------------------------------------------------

package applier

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

const maxExamples = 10
const exampleMaxLen = 140

// Applier implements interfaces.TextApplier. It never rewrites raw XML
// with a textual find/replace — every rewrite goes through a part's
// decoded TextSegments so opening/closing tags, attributes (e.g.
// xml:space="preserve") and every other part's bytes are left untouched.
type Applier struct {
	logger arbor.ILogger
}

var _ interfaces.TextApplier = (*Applier)(nil)

func New(logger arbor.ILogger) *Applier {
	return &Applier{logger: logger}
}

// segRef tracks one text segment's mutable position inside its part's
// working byte buffer, alongside the immutable projection coordinates and
// original decoded text it was built from.
type segRef struct {
	partPath  string
	projStart int
	projEnd   int
	text      string // original decoded text; never mutated once read, only replaced
	xmlStart  int    // current (delta-adjusted) offset of decoded content in the part buffer
	xmlEnd    int
}

// partWork is the lazily-materialized working buffer for a single part.
type partWork struct {
	content []byte
	segs    []*segRef // in document order for this part
}

// resolvedEdit is an edit after locate() has pinned it to a projection span.
type resolvedEdit struct {
	edit  interfaces.Edit
	start int
	end   int
}

// span is a closed/open projection range already consumed by an applied edit.
type span struct {
	start int
	end   int
}

func (a *Applier) Apply(adapter interfaces.ContainerAdapter, projection *models.TextProjection, edits []interfaces.Edit) (models.ApplyStats, error) {
	stats := models.ApplyStats{NodesConsidered: len(projection.Segments)}
	if len(edits) == 0 || len(projection.Segments) == 0 {
		return stats, nil
	}

	resolved := make([]resolvedEdit, 0, len(edits))
	for _, e := range edits {
		start, end, ok := locate(projection.Text, e)
		if !ok {
			continue
		}
		resolved = append(resolved, resolvedEdit{edit: e, start: start, end: end})
	}

	// Earliest projection-start first; when offsets were absent (so ties
	// are common) prefer the longer, more specific `error` span first.
	sort.SliceStable(resolved, func(i, j int) bool {
		if resolved[i].start != resolved[j].start {
			return resolved[i].start < resolved[j].start
		}
		return len(resolved[i].edit.Error) > len(resolved[j].edit.Error)
	})

	segsByPart, globalIdx := buildSegRefs(projection)
	parts := map[string]*partWork{}

	var consumed []span
	for _, r := range resolved {
		if overlapsAny(consumed, r.start, r.end) {
			continue
		}

		gs, _, ok1 := projection.Locate(r.start)
		ge, _, ok2 := projection.Locate(r.end)
		if !ok1 || !ok2 {
			continue
		}

		ls, le := globalIdx[gs], globalIdx[ge]
		if ls.part != le.part || ls.pos > le.pos {
			continue // spanning parts is not supported; skip defensively
		}

		pw, err := a.loadPart(adapter, parts, ls.part, segsByPart)
		if err != nil {
			continue
		}

		before, after, ok := applyGroup(pw, segsByPart[ls.part][ls.pos:le.pos+1], r)
		if !ok {
			continue
		}

		consumed = append(consumed, span{start: r.start, end: r.end})
		stats.NodesChanged++
		if len(stats.Examples) < maxExamples {
			stats.Examples = append(stats.Examples, models.EditExample{
				Before: truncate(before, exampleMaxLen),
				After:  truncate(after, exampleMaxLen),
			})
		}
	}

	for path, pw := range parts {
		adapter.WritePart(path, pw.content)
	}

	return stats, nil
}

type localRef struct {
	part string
	pos  int
}

// buildSegRefs groups projection segments by part, preserving document
// order, and returns the global-segment-index -> (part, position) map
// needed to slice a contiguous run of segments for a multi-segment edit.
func buildSegRefs(projection *models.TextProjection) (map[string][]*segRef, []localRef) {
	byPart := map[string][]*segRef{}
	globalIdx := make([]localRef, len(projection.Segments))

	for gi, seg := range projection.Segments {
		sr := &segRef{
			partPath:  seg.PartPath,
			projStart: seg.ProjStart,
			projEnd:   seg.ProjEnd,
			text:      seg.Text,
			xmlStart:  seg.XMLStart,
			xmlEnd:    seg.XMLEnd,
		}
		byPart[seg.PartPath] = append(byPart[seg.PartPath], sr)
		globalIdx[gi] = localRef{part: seg.PartPath, pos: len(byPart[seg.PartPath]) - 1}
	}

	return byPart, globalIdx
}

func (a *Applier) loadPart(adapter interfaces.ContainerAdapter, parts map[string]*partWork, path string, segsByPart map[string][]*segRef) (*partWork, error) {
	if pw, ok := parts[path]; ok {
		return pw, nil
	}
	raw, err := adapter.ReadPart(path)
	if err != nil || raw == nil {
		return nil, common.ErrPartParse
	}
	pw := &partWork{content: append([]byte{}, raw...), segs: segsByPart[path]}
	parts[path] = pw
	return pw, nil
}

// applyGroup handles both the single-segment and multi-segment cases of
// spec.md §4.6 step 3: the group's decoded texts are concatenated, the
// edit is applied to the concatenation, and the result is redistributed
// back across the original segments by length, with the last segment
// absorbing any size difference.
func applyGroup(pw *partWork, group []*segRef, r resolvedEdit) (before string, after string, ok bool) {
	if len(group) == 0 {
		return "", "", false
	}

	catStart := group[0].projStart
	origLens := make([]int, len(group))
	var cat strings.Builder
	for i, sr := range group {
		cat.WriteString(sr.text)
		origLens[i] = len(sr.text)
	}
	full := cat.String()

	localStart := r.start - catStart
	localEnd := r.end - catStart
	if localStart < 0 || localEnd > len(full) || localStart > localEnd {
		return "", "", false
	}
	if r.edit.Error != "" {
		caseInsensitiveEq := strings.EqualFold(full[localStart:localEnd], r.edit.Error)
		if !caseInsensitiveEq {
			return "", "", false // edge case: error no longer matches the targeted slice, skip
		}
	}

	newCat := full[:localStart] + r.edit.Replacement + full[localEnd:]

	newTexts := redistribute(newCat, origLens)

	for i, sr := range group {
		if newTexts[i] == sr.text {
			continue
		}
		if err := rewriteSegmentInner(pw, sr, newTexts[i]); err != nil {
			return "", "", false
		}
		sr.text = newTexts[i]
	}

	return full, newCat, true
}

// redistribute spreads newText back across len(origLens) segments: each
// non-last segment keeps up to its original length, and the last segment
// absorbs whatever remains.
func redistribute(newText string, origLens []int) []string {
	out := make([]string, len(origLens))
	pos := 0
	for i, l := range origLens {
		if i == len(origLens)-1 {
			out[i] = newText[pos:]
			continue
		}
		end := pos + l
		if end > len(newText) {
			end = len(newText)
		}
		out[i] = newText[pos:end]
		pos = end
	}
	return out
}

// rewriteSegmentInner replaces a single segment's decoded content in its
// part's working buffer, preserving the opening and closing tags (and
// their attributes) untouched, then shifts every other segment in the
// same part whose content begins at or after the edited range by the
// resulting byte delta.
func rewriteSegmentInner(pw *partWork, sr *segRef, newText string) error {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(newText)); err != nil {
		return err
	}
	newInner := buf.Bytes()

	oldStart, oldEnd := sr.xmlStart, sr.xmlEnd
	if oldStart < 0 || oldEnd > len(pw.content) || oldStart > oldEnd {
		return common.ErrInternal
	}

	next := make([]byte, 0, len(pw.content)-(oldEnd-oldStart)+len(newInner))
	next = append(next, pw.content[:oldStart]...)
	next = append(next, newInner...)
	next = append(next, pw.content[oldEnd:]...)
	pw.content = next

	delta := len(newInner) - (oldEnd - oldStart)
	sr.xmlEnd = oldEnd + delta

	for _, other := range pw.segs {
		if other == sr {
			continue
		}
		if other.xmlStart >= oldEnd {
			other.xmlStart += delta
			other.xmlEnd += delta
		}
	}

	return nil
}

func overlapsAny(consumed []span, start, end int) bool {
	for _, s := range consumed {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
