package models

// Part is a named byte stream inside a container: a ZIP member for OOXML
// formats, or a logical section (info dictionary, annotation list,
// attachment name tree) for PDF.
type Part struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}
