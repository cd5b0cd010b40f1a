package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/dupscan/domain"
)

func writeHello(w io.Writer) error {
	_, err := io.WriteString(w, "hello")
	return err
}

func TestFileOutputWriter_Writer(t *testing.T) {
	var status, out bytes.Buffer
	w := NewFileOutputWriter(&status)

	require.NoError(t, w.Write(&out, "", domain.OutputFormatJSON, writeHello))
	assert.Equal(t, "hello", out.String())
	assert.Empty(t, status.String())
}

func TestFileOutputWriter_File(t *testing.T) {
	var status bytes.Buffer
	w := NewFileOutputWriter(&status)
	path := filepath.Join(t.TempDir(), "reports", "dup.csv")

	require.NoError(t, w.Write(nil, path, domain.OutputFormatCSV, writeHello))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Contains(t, status.String(), "CSV report generated:")
	assert.Contains(t, status.String(), "dup.csv")
}

func TestFileOutputWriter_WriteFailure(t *testing.T) {
	w := NewFileOutputWriter(io.Discard)
	failing := func(io.Writer) error { return errors.New("disk full") }

	err := w.Write(&bytes.Buffer{}, "", domain.OutputFormatText, failing)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
	assert.Contains(t, err.Error(), "disk full")
}
