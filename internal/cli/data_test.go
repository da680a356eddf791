package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadData(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ada.json": `{"firstName":"Ada","age":36}`,
		"ada.yaml": "firstName: Ada\nage: 36\n",
		"bad.json": `{"firstName":`,
	})

	v, err := ReadData(filepath.Join(dir, "ada.json"), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"firstName": "Ada", "age": json.Number("36")}, v)

	v, err = ReadData(filepath.Join(dir, "ada.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"firstName": "Ada", "age": 36}, v)

	_, err = ReadData(filepath.Join(dir, "bad.json"), nil)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = ReadData(filepath.Join(dir, "missing.json"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadData_Stdin(t *testing.T) {
	v, err := ReadData(Stdin, strings.NewReader(`[1, 2]`))
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, v)
}
