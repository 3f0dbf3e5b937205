package container

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// pdfInfoKeys are the standard Info dictionary entries the Metadata
// detector recognizes, per spec.md §4.3.
var pdfInfoKeys = []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer", "CreationDate", "ModDate"}

// PDFAdapter implements interfaces.ContainerAdapter over a PDF object
// tree. Per spec.md §4.1, it exposes only the info dictionary, per-page
// annotation arrays, and the embedded-file name tree as parts — every
// other PDF object passes through untouched.
type PDFAdapter struct {
	mu   sync.Mutex
	doc  *models.Document
	ctx  *model.Context
	conf *model.Configuration
}

var _ interfaces.ContainerAdapter = (*PDFAdapter)(nil)

// OpenPDF parses doc.Bytes as a PDF object tree.
func OpenPDF(doc *models.Document) (*PDFAdapter, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadContext(bytes.NewReader(doc.Bytes), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidContainer, err)
	}
	return &PDFAdapter{doc: doc, ctx: ctx, conf: conf}, nil
}

func (a *PDFAdapter) Document() *models.Document {
	return a.doc
}

// ReadPart recognizes three pseudo-path families:
//   - "info/<Key>": one of pdfInfoKeys, value as raw bytes.
//   - "annotations/page-<n>": a newline-joined dump of annotation subtype
//     and content for page n, one line per annotation.
//   - "attachments/<name>": the embedded file's raw content.
func (a *PDFAdapter) ReadPart(path string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case strings.HasPrefix(path, "info/"):
		key := strings.TrimPrefix(path, "info/")
		v, ok := a.infoValue(key)
		if !ok {
			return nil, nil
		}
		return []byte(v), nil

	case strings.HasPrefix(path, "annotations/page-"):
		return []byte(a.pageAnnotationDump(path)), nil

	case strings.HasPrefix(path, "attachments/"):
		name := strings.TrimPrefix(path, "attachments/")
		return a.attachmentContent(name)
	}

	return nil, nil
}

func (a *PDFAdapter) infoValue(key string) (string, bool) {
	if a.ctx.XRefTable.Info == nil {
		return "", false
	}
	d, err := a.ctx.DereferenceDict(*a.ctx.XRefTable.Info)
	if err != nil || d == nil {
		return "", false
	}
	obj, ok := d[key]
	if !ok {
		return "", false
	}
	obj, _ = a.ctx.Dereference(obj)
	switch v := obj.(type) {
	case types.StringLiteral:
		s, _ := types.StringLiteralToString(v)
		return s, s != ""
	case types.HexLiteral:
		s, _ := types.StringLiteralToString(types.StringLiteral(v))
		return s, s != ""
	default:
		return "", false
	}
}

func (a *PDFAdapter) pageAnnotationDump(path string) string {
	pageNum := pageNumberFromPath(path)
	if pageNum <= 0 {
		return ""
	}
	annots, err := a.ctx.PageAnnotations(pageNum)
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, ann := range annots {
		fmt.Fprintf(&b, "%s|%s\n", ann.SubType(), ann.ContentString())
	}
	return b.String()
}

func (a *PDFAdapter) attachmentContent(name string) ([]byte, error) {
	attachments, err := api.ListAttachments(a.ctx)
	if err != nil {
		return nil, nil
	}
	for _, att := range attachments {
		if att.FileName == name {
			return att.Reader.(interface{ Bytes() []byte }).Bytes(), nil
		}
	}
	return nil, nil
}

// WritePart sets an info/<Key> value. The annotation and attachment
// families are read/remove-only: spec.md's Non-goal excludes applying
// redactions to PDF content beyond the metadata/annotation/attachment
// level, and annotations/attachments are removed wholesale, not rewritten.
func (a *PDFAdapter) WritePart(path string, content []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !strings.HasPrefix(path, "info/") {
		return
	}
	key := strings.TrimPrefix(path, "info/")
	if a.ctx.XRefTable.Info == nil {
		return
	}
	d, err := a.ctx.DereferenceDict(*a.ctx.XRefTable.Info)
	if err != nil || d == nil {
		return
	}
	d[key] = types.StringLiteral(string(content))
}

// RemovePart clears an info/<Key> entry, removes every annotation on a
// given page, or removes a named attachment.
func (a *PDFAdapter) RemovePart(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case strings.HasPrefix(path, "info/"):
		key := strings.TrimPrefix(path, "info/")
		if a.ctx.XRefTable.Info == nil {
			return
		}
		d, err := a.ctx.DereferenceDict(*a.ctx.XRefTable.Info)
		if err != nil || d == nil {
			return
		}
		delete(d, key)

	case strings.HasPrefix(path, "annotations/page-"):
		pageNum := pageNumberFromPath(path)
		if pageNum > 0 {
			_ = a.ctx.RemoveAnnotationsFromPage(pageNum)
		}

	case strings.HasPrefix(path, "attachments/"):
		name := strings.TrimPrefix(path, "attachments/")
		_ = api.RemoveAttachments(a.ctx, []string{name})
	}
}

// ListParts enumerates info/, annotations/page-N and attachments/ pseudo
// paths. An empty glob returns all three families.
func (a *PDFAdapter) ListParts(glob string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []string
	for _, k := range pdfInfoKeys {
		if _, ok := a.infoValue(k); ok {
			out = append(out, "info/"+k)
		}
	}
	for page := 1; page <= a.ctx.PageCount; page++ {
		annots, err := a.ctx.PageAnnotations(page)
		if err == nil && len(annots) > 0 {
			out = append(out, fmt.Sprintf("annotations/page-%d", page))
		}
	}
	if attachments, err := api.ListAttachments(a.ctx); err == nil {
		for _, att := range attachments {
			out = append(out, "attachments/"+att.FileName)
		}
	}

	if glob != "" {
		filtered := out[:0]
		for _, p := range out {
			if matched, _ := matchGlob(glob, p); matched {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}

	sort.Strings(out)
	return out
}

// Save writes the mutated object tree back to PDF bytes.
func (a *PDFAdapter) Save() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var buf bytes.Buffer
	if err := api.Write(a.ctx, &buf, a.conf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pageNumberFromPath(path string) int {
	var n int
	if _, err := fmt.Sscanf(path, "annotations/page-%d", &n); err != nil {
		return 0
	}
	return n
}

func matchGlob(glob, name string) (bool, error) {
	return strings.HasPrefix(name, strings.TrimSuffix(glob, "*")), nil
}
