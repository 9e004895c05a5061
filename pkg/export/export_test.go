package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:    "Roster",
		Subtitle: "Generated for tests",
		Data: Dataset{
			Headers: []string{"Name", "Grade"},
			Rows: []map[string]string{
				{"Name": "Alice Johnson", "Grade": "10th Grade"},
				{"Name": "Bob, Jr.", "Grade": "9th Grade"},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "Name,Grade\nAlice Johnson,10th Grade\n\"Bob, Jr.\",9th Grade\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Document{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	doc := sampleDocument()
	for i := 0; i < 80; i++ {
		doc.Data.Rows = append(doc.Data.Rows, map[string]string{"Name": "Student", "Grade": "11th Grade"})
	}

	out, err := NewPDFExporter().Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
