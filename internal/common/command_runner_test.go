package common

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/analysis"
	"resumetwin/internal/document"
	"resumetwin/internal/errors"
	"resumetwin/internal/types"
)

func TestRunDocumentCommandWritesFormattedOutput(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(resume, []byte("SQL, Python and TensorFlow"), 0o600))
	out := filepath.Join(dir, "out", "skills.json")

	logger := errors.NewLogger(slog.LevelError)
	err := RunDocumentCommand(context.Background(), logger, CommandConfig{OutputFile: out, OutputFormat: "json"}, resume,
		func(_ context.Context, doc *document.Document) (types.SkillGap, error) {
			return analysis.FindSkillGap(analysis.ExtractSkills(doc.Text), "Data Scientist",
				types.RoleSkillMap{"Data Scientist": {"Python", "SQL", "Pandas"}}), nil
		})
	require.NoError(t, err)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_role": "Data Scientist", "matched_skills": ["Python", "SQL"], "suggested_skills": ["Pandas"]}`, string(written))
}

func TestRunDocumentCommandMissingFile(t *testing.T) {
	called := false
	err := RunDocumentCommand(context.Background(), errors.NewLogger(slog.LevelError), CommandConfig{OutputFormat: "json"},
		filepath.Join(t.TempDir(), "missing.pdf"),
		func(context.Context, *document.Document) (string, error) {
			called = true
			return "", nil
		})

	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.False(t, called)
}

func TestOutputHandlerStdoutAndBinary(t *testing.T) {
	var buf bytes.Buffer
	handler := NewOutputHandler(errors.NewLogger(slog.LevelError))
	handler.stdout = &buf

	require.NoError(t, handler.HandleOutput(types.RolesResponse{Roles: []string{"Web Developer"}}, CommandConfig{OutputFormat: "text"}))
	assert.Equal(t, "Web Developer\n", buf.String())

	err := handler.HandleOutput(types.RolesResponse{}, CommandConfig{OutputFormat: "yaml"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	assert.Error(t, handler.HandleBinary([]byte("%PDF-"), ""))

	target := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, handler.HandleBinary([]byte("%PDF-"), target))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(data))
}
