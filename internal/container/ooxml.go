package container

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

func init() {
	// klauspost/compress's flate implementation is a drop-in faster
	// deflate; registering it once makes every Save() on every OOXML
	// adapter instance benefit from it.
	zip.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

// OOXMLAdapter implements interfaces.ContainerAdapter over a DOCX/PPTX/XLSX
// ZIP archive. Parts are buffered in memory until Save materializes a new
// archive atomically — a partial write can never escape the adapter.
type OOXMLAdapter struct {
	mu      sync.RWMutex
	doc     *models.Document
	parts   map[string][]byte
	order   []string
	removed map[string]bool
}

var _ interfaces.ContainerAdapter = (*OOXMLAdapter)(nil)

// OpenOOXML parses doc.Bytes as a ZIP archive and returns an adapter with
// every member loaded as a part.
func OpenOOXML(doc *models.Document) (*OOXMLAdapter, error) {
	zr, err := zip.NewReader(bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidContainer, err)
	}

	a := &OOXMLAdapter{
		doc:     doc,
		parts:   make(map[string][]byte, len(zr.File)),
		order:   make([]string, 0, len(zr.File)),
		removed: make(map[string]bool),
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: part %s: %v", common.ErrPartParse, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: part %s: %v", common.ErrPartParse, f.Name, err)
		}
		a.parts[f.Name] = content
		a.order = append(a.order, f.Name)
	}

	return a, nil
}

// Document returns the original input document.
func (a *OOXMLAdapter) Document() *models.Document {
	return a.doc
}

// ReadPart returns a part's raw content, or nil if absent.
func (a *OOXMLAdapter) ReadPart(path string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	content, ok := a.parts[path]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// WritePart buffers a new or replacement part, to be materialized on Save.
func (a *OOXMLAdapter) WritePart(partPath string, content []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, existed := a.parts[partPath]; !existed {
		a.order = append(a.order, partPath)
	}
	a.parts[partPath] = content
	delete(a.removed, partPath)
}

// RemovePart marks a part for exclusion from the archive on Save.
func (a *OOXMLAdapter) RemovePart(partPath string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.parts, partPath)
	a.removed[partPath] = true
}

// ListParts returns part paths matching glob, sorted lexically. An empty
// glob matches every part.
func (a *OOXMLAdapter) ListParts(glob string) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []string
	for _, p := range a.order {
		if a.removed[p] {
			continue
		}
		if _, ok := a.parts[p]; !ok {
			continue
		}
		if glob == "" {
			out = append(out, p)
			continue
		}
		if ok, _ := path.Match(glob, p); ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Save materializes the in-memory part table into a new ZIP archive.
func (a *OOXMLAdapter) Save() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := make([]string, 0, len(a.parts))
	for p := range a.parts {
		if !a.removed[p] {
			names = append(names, p)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", name, err)
		}
		if _, err := w.Write(a.parts[name]); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip writer: %w", err)
	}

	return buf.Bytes(), nil
}
