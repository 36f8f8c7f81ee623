package report

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/types"
)

func TestGenerateProducesPDF(t *testing.T) {
	gen := NewGenerator("")
	out, err := gen.Generate(types.ReportRequest{
		Score:       50,
		Keywords:    []string{"Python"},
		Suggestions: []string{"Avoid using images in resume.", "Add more job-relevant keywords like Python, HTML, etc."},
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestGenerateWithoutSuggestions(t *testing.T) {
	out, err := NewGenerator("ATS Resume Report").Generate(types.ReportRequest{Score: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateManySuggestionsAddsPages(t *testing.T) {
	suggestions := make([]string, 60)
	for i := range suggestions {
		suggestions[i] = fmt.Sprintf("suggestion %d", i)
	}

	short, err := NewGenerator("").Generate(types.ReportRequest{Score: 70, Suggestions: suggestions[:1]})
	require.NoError(t, err)
	long, err := NewGenerator("").Generate(types.ReportRequest{Score: 70, Suggestions: suggestions})
	require.NoError(t, err)

	assert.Equal(t, 1, bytes.Count(short, []byte("/Type /Page\n")))
	assert.Greater(t, bytes.Count(long, []byte("/Type /Page\n")), 1)
}
