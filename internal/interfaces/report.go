// -----------------------------------------------------------------------
// Report Assembler Interface
// -----------------------------------------------------------------------

package interfaces

import "github.com/ternarybob/qualion/internal/models"

// ReportAssembler builds the JSON and HTML report artifacts from a
// completed pipeline run.
type ReportAssembler interface {
	BuildJSON(report *models.Report) ([]byte, error)
	BuildHTML(report *models.Report) ([]byte, error)
}
