// -----------------------------------------------------------------------
// Container Adapter Interface - open/read/write format containers
// -----------------------------------------------------------------------

package interfaces

import "github.com/ternarybob/qualion/internal/models"

// ContainerAdapter opens a document container (ZIP-backed OOXML, or a PDF
// object tree) and exposes its named parts. It is single-writer:
// WritePart/RemovePart must not be called concurrently with each other or
// with Save; detectors only ever call ReadPart/ListParts.
type ContainerAdapter interface {
	// Document returns the Document this adapter was opened against.
	Document() *models.Document

	// ReadPart returns the raw bytes of a part, or ErrMissingPart.
	ReadPart(path string) ([]byte, error)

	// WritePart buffers a replacement for a part's content until Save.
	WritePart(path string, content []byte)

	// RemovePart buffers removal of a part until Save.
	RemovePart(path string)

	// ListParts returns the ordered paths of parts matching glob
	// (e.g. "word/header*.xml", "ppt/slides/slide*.xml").
	ListParts(glob string) []string

	// Save materializes a new archive atomically from the in-memory part
	// table and returns its bytes. Partial writes are impossible: Save
	// either returns a fully valid archive or an error, never a partial one.
	Save() ([]byte, error)
}
