package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeDocument(t *testing.T) {
	recs, err := DecodeDocument([]byte(`{"records":[{"name":"A","category":"C1","description":"D1"}]}`))
	require.NoError(t, err)
	require.Equal(t, []Record{{Name: "A", Category: "C1", Description: "D1"}}, recs)

	recs, err = DecodeDocument([]byte(`{"records":[]}`))
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestDecodeDocumentMalformed(t *testing.T) {
	_, err := DecodeDocument([]byte("not json at all"))
	require.ErrorIs(t, err, ErrMalformedData)

	_, err = DecodeDocument([]byte(`{"records": "oops"}`))
	require.ErrorIs(t, err, ErrMalformedData)
}

func TestEncodeDocument(t *testing.T) {
	d := EncodeDocument([]Record{{Name: "A", Category: "C1", Description: "D1"}})
	// pretty-printed, one field per line
	require.True(t, strings.Contains(string(d), "\n"))

	recs, err := DecodeDocument(d)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "A", recs[0].Name)

	// nil encodes as an empty collection, not null
	recs, err = DecodeDocument(EncodeDocument(nil))
	require.NoError(t, err)
	require.NotNil(t, recs)
	require.Empty(t, recs)
}
