package extractor

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/qualion/internal/common"
	"github.com/ternarybob/qualion/internal/interfaces"
	"github.com/ternarybob/qualion/internal/models"
)

// New dispatches to the format-specific interfaces.TextExtractor.
func New(format models.Format, logger arbor.ILogger) (interfaces.TextExtractor, error) {
	switch format {
	case models.FormatDOCX:
		return &DOCXExtractor{}, nil
	case models.FormatPPTX:
		return &PPTXExtractor{}, nil
	case models.FormatXLSX:
		return &XLSXExtractor{}, nil
	case models.FormatPDF:
		return NewPDFExtractor(logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, format)
	}
}
