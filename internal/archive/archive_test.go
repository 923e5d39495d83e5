package archive_test

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/einvoice-submit/internal/archive"
	"github.com/rezonia/einvoice-submit/internal/model"
)

func zipOf(t *testing.T, entries ...[2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e[0])
		require.NoError(t, err)
		_, err = f.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestCompress(t *testing.T) {
	data, err := archive.Compress("20000000001-01-F001-1.xml", []byte("<Invoice/>"))
	require.NoError(t, err)

	names, err := archive.Entries(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"20000000001-01-F001-1.xml"}, names)

	name, content, err := archive.LastEntry(data)
	require.NoError(t, err)
	assert.Equal(t, "20000000001-01-F001-1.xml", name)
	assert.Equal(t, "<Invoice/>", string(content))
}

func TestLastEntry_PicksLast(t *testing.T) {
	data := zipOf(t,
		[2]string{"ignored.xml", "first"},
		[2]string{"dummy/", ""},
		[2]string{"R001-20-001.xml", "last"},
	)

	name, content, err := archive.LastEntry(data)
	require.NoError(t, err)
	assert.Equal(t, "R001-20-001.xml", name)
	assert.Equal(t, "last", string(content))
}

func TestLastEntry_SkipsTrailingDirectory(t *testing.T) {
	data := zipOf(t,
		[2]string{"R-20000000001-01-F001-1.xml", "receipt"},
		[2]string{"dummy/", ""},
	)

	name, _, err := archive.LastEntry(data)
	require.NoError(t, err)
	assert.Equal(t, "R-20000000001-01-F001-1.xml", name)
}

func TestLastEntry_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"not a zip", []byte("PK definitely not")},
		{"no entries", zipOf(t)},
		{"only directories", zipOf(t, [2]string{"dummy/", ""})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := archive.LastEntry(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrArchive)
		})
	}
}
