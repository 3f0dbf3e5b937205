package proofreader

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

const maxConcurrentChunks = 3

const systemPrompt = `You proofread business document text for spelling and grammar defects introduced by text extraction (words split by stray whitespace or punctuation, words stuck together, duplicated spaces). You do not rewrite style or tone. Reply with a JSON array only, no prose. Each element: {"error":"<exact substring of the chunk>","correction":"<replacement>","type":"<short label>","message":"<why>","startOffset":<int>,"endOffset":<int>}. Offsets are 0-based character positions into the chunk you were given. If nothing needs correcting, reply with [].`

type llmResultItem struct {
	Error       string `json:"error"`
	Correction  string `json:"correction"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	StartOffset *int   `json:"startOffset"`
	EndOffset   *int   `json:"endOffset"`
}

// runLLM dispatches the masked, chunked text to the configured
// interfaces.LLMService with bounded concurrency (spec.md §5: at most 3
// concurrent outbound calls per document) and returns issues remapped to
// global offsets into the original (unmasked) text.
func runLLM(ctx context.Context, svc interfaces.LLMService, original string, candidates []models.SpellingIssue) ([]models.SpellingIssue, error) {
	masked := maskNoise(original)
	chunks := chunkText(masked)
	if len(chunks) == 0 {
		return nil, nil
	}

	results := make([][]models.SpellingIssue, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChunks)

	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			issues, err := processChunk(gctx, svc, original, c, candidatesIn(candidates, c))
			if err != nil {
				return err
			}
			results[i] = issues
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.SpellingIssue
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func candidatesIn(candidates []models.SpellingIssue, c chunkRange) []models.SpellingIssue {
	var out []models.SpellingIssue
	for _, cand := range candidates {
		if cand.HasOffsets() && *cand.StartIndex >= c.Start && *cand.EndIndex <= c.End {
			out = append(out, cand)
		}
	}
	return out
}

func processChunk(ctx context.Context, svc interfaces.LLMService, original string, c chunkRange, candidates []models.SpellingIssue) ([]models.SpellingIssue, error) {
	prompt, err := buildPrompt(c.Text, candidates)
	if err != nil {
		return nil, fmt.Errorf("build proofreader prompt: %w", err)
	}

	reply, err := svc.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	items, err := parseLLMReply(reply)
	if err != nil {
		return nil, nil // malformed reply degrades to "no findings from this chunk", not a hard failure
	}

	var issues []models.SpellingIssue
	for _, item := range items {
		issue, ok := resolveItem(original, c, item)
		if !ok {
			continue
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func buildPrompt(chunk string, candidates []models.SpellingIssue) (string, error) {
	type candidateJSON struct {
		Error         string `json:"error"`
		ContextBefore string `json:"contextBefore,omitempty"`
		ContextAfter  string `json:"contextAfter,omitempty"`
	}
	cands := make([]candidateJSON, 0, len(candidates))
	for _, c := range candidates {
		cands = append(cands, candidateJSON{Error: c.Error, ContextBefore: c.ContextBefore, ContextAfter: c.ContextAfter})
	}
	candJSON, err := json.Marshal(cands)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Suspect candidates already flagged by a deterministic pass:\n")
	b.Write(candJSON)
	b.WriteString("\n\nChunk text:\n")
	b.WriteString(chunk)
	return b.String(), nil
}

func parseLLMReply(reply string) ([]llmResultItem, error) {
	trimmed := strings.TrimSpace(reply)
	start := strings.IndexByte(trimmed, '[')
	end := strings.LastIndexByte(trimmed, ']')
	if start < 0 || end < 0 || end < start {
		return nil, fmt.Errorf("no JSON array found in LLM reply")
	}
	var items []llmResultItem
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// resolveItem verifies an LLM-returned offset against the literal error
// substring, relocating by unique substring search within the chunk when
// the offset is wrong, and rejects the item if the substring is absent or
// ambiguous (spec.md §4.5/§8: "applier relocates by unique substring
// search; if multiple matches, rejects").
func resolveItem(original string, c chunkRange, item llmResultItem) (models.SpellingIssue, bool) {
	if item.Error == "" || item.Correction == "" {
		return models.SpellingIssue{}, false
	}

	localStart := -1
	if item.StartOffset != nil && item.EndOffset != nil {
		s, e := *item.StartOffset, *item.EndOffset
		if s >= 0 && e <= len(c.Text) && s < e && c.Text[s:e] == item.Error {
			localStart = s
		}
	}

	if localStart < 0 {
		first := strings.Index(c.Text, item.Error)
		if first < 0 {
			return models.SpellingIssue{}, false
		}
		if strings.Index(c.Text[first+1:], item.Error) >= 0 {
			return models.SpellingIssue{}, false // ambiguous, reject
		}
		localStart = first
	}

	globalStart := c.Start + localStart
	globalEnd := globalStart + len(item.Error)
	if globalEnd > len(original) || original[globalStart:globalEnd] != item.Error {
		return models.SpellingIssue{}, false
	}

	typ := item.Type
	if typ == "" {
		typ = "llm_correction"
	}

	return models.SpellingIssue{
		Error:         item.Error,
		Correction:    item.Correction,
		Type:          typ,
		Severity:      models.SeverityLow,
		Message:       item.Message,
		ContextBefore: windowBefore(original, globalStart),
		ContextAfter:  windowAfter(original, globalEnd),
		StartIndex:    intPtr(globalStart),
		EndIndex:      intPtr(globalEnd),
	}, true
}
