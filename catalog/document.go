package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
)

// document is the persisted shape of the collection.
type document struct {
	Records []Record `json:"records"`
}

// DecodeDocument parses a persisted catalog document.
// A parse failure is reported as ErrMalformedData; the input is never
// partially decoded or silently truncated.
func DecodeDocument(d []byte) ([]Record, error) {
	var doc document
	if err := json.Unmarshal(d, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	return doc.Records, nil
}

// EncodeDocument serializes records as the catalog document,
// pretty-printed so the stored file stays human-readable.
func EncodeDocument(recs []Record) []byte {
	if recs == nil {
		recs = []Record{}
	}
	d, _ := json.Marshal(document{Records: recs})
	return pretty.Pretty(d)
}
