package container

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/qualion/internal/models"
)

func buildZip(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenOOXML_LoadsAllParts(t *testing.T) {
	raw := buildZip(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   "<w:document/>",
		"docProps/core.xml":   "<cp:coreProperties/>",
	})

	doc := &models.Document{Format: models.FormatDOCX, Bytes: raw}
	a, err := OpenOOXML(doc)
	require.NoError(t, err)

	content, err := a.ReadPart("word/document.xml")
	require.NoError(t, err)
	assert.Equal(t, "<w:document/>", string(content))

	missing, err := a.ReadPart("nonexistent.xml")
	require.NoError(t, err)
	assert.Nil(t, missing)

	parts := a.ListParts("")
	assert.Len(t, parts, 3)
}

func TestOOXMLAdapter_RemovePartExcludesFromListAndSave(t *testing.T) {
	raw := buildZip(t, map[string]string{
		"word/document.xml": "<w:document/>",
		"docProps/core.xml": "<cp:coreProperties/>",
	})
	doc := &models.Document{Format: models.FormatDOCX, Bytes: raw}
	a, err := OpenOOXML(doc)
	require.NoError(t, err)

	a.RemovePart("docProps/core.xml")

	parts := a.ListParts("")
	assert.NotContains(t, parts, "docProps/core.xml")

	saved, err := a.Save()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(saved), int64(len(saved)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")
	assert.NotContains(t, names, "docProps/core.xml")
}

func TestOOXMLAdapter_WritePartAddsNewPartAndRoundTripsThroughSave(t *testing.T) {
	raw := buildZip(t, map[string]string{
		"word/document.xml": "<w:document/>",
	})
	doc := &models.Document{Format: models.FormatDOCX, Bytes: raw}
	a, err := OpenOOXML(doc)
	require.NoError(t, err)

	a.WritePart("word/document.xml", []byte("<w:document>edited</w:document>"))

	saved, err := a.Save()
	require.NoError(t, err)

	doc2 := &models.Document{Format: models.FormatDOCX, Bytes: saved}
	a2, err := OpenOOXML(doc2)
	require.NoError(t, err)

	content, err := a2.ReadPart("word/document.xml")
	require.NoError(t, err)
	assert.Equal(t, "<w:document>edited</w:document>", string(content))
}

func TestOOXMLAdapter_ListPartsGlobMatchesByDirectory(t *testing.T) {
	raw := buildZip(t, map[string]string{
		"word/document.xml": "<w:document/>",
		"word/header1.xml":  "<w:hdr/>",
		"word/footer1.xml":  "<w:ftr/>",
		"docProps/core.xml": "<cp:coreProperties/>",
	})
	doc := &models.Document{Format: models.FormatDOCX, Bytes: raw}
	a, err := OpenOOXML(doc)
	require.NoError(t, err)

	parts := a.ListParts("word/*.xml")
	assert.Len(t, parts, 3)
	for _, p := range parts {
		assert.Contains(t, p, "word/")
	}
}

func TestOpenOOXML_RejectsInvalidZip(t *testing.T) {
	doc := &models.Document{Format: models.FormatDOCX, Bytes: []byte("not a zip file")}
	_, err := OpenOOXML(doc)
	assert.Error(t, err)
}
