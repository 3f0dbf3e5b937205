package container

import (
	"fmt"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// Open dispatches to the OOXML or PDF adapter based on doc.Format.
func Open(doc *models.Document) (interfaces.ContainerAdapter, error) {
	switch doc.Format {
	case models.FormatDOCX, models.FormatPPTX, models.FormatXLSX:
		return OpenOOXML(doc)
	case models.FormatPDF:
		return OpenPDF(doc)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, doc.Format)
	}
}
