package fileio_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/haplograph/fileio"
)

func TestPlainRoundTrip(t *testing.T) {
	ctx := vcontext.Background()
	dir, err := ioutil.TempDir("", "fileio")
	require.NoError(t, err)
	path := filepath.Join(dir, "data.txt")

	w, err := fileio.Create(ctx, path)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello graph"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fileio.Open(ctx, path)
	require.NoError(t, err)
	got, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "hello graph", string(got))
}

func TestGzipRoundTrip(t *testing.T) {
	ctx := vcontext.Background()
	dir, err := ioutil.TempDir("", "fileio")
	require.NoError(t, err)
	path := filepath.Join(dir, "data.txt.gz")

	w, err := fileio.Create(ctx, path)
	require.NoError(t, err)
	_, err = w.Write([]byte("compressed graph bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fileio.Open(ctx, path)
	require.NoError(t, err)
	got, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "compressed graph bytes", string(got))
}
