package trend

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed jsonschema/trend_schema.json
var TrendSchema []byte

var trendSchemaLoader = gojsonschema.NewBytesLoader(TrendSchema)

// DecodeTrend decodes a json array of run summaries. The array is checked
// against the trend schema first, so a missing date or a non numeric count
// is returned as a MalformedSummaryError.
func DecodeTrend(trendBytes []byte) (Trend, error) {
	if err := ValidateTrend(trendBytes); err != nil {
		return nil, err
	}

	var t Trend
	if err := json.Unmarshal(trendBytes, &t); err != nil {
		return nil, &MalformedSummaryError{Index: -1, Field: "(root)", Reason: err.Error()}
	}

	return t, t.Validate()
}

// DecodeDocument decodes a trend document, of the form {"trend":[...]}
func DecodeDocument(docBytes []byte) (Document, error) {
	var body struct {
		Trend json.RawMessage `json:"trend"`
	}

	if err := json.Unmarshal(docBytes, &body); err != nil {
		return Document{}, &MalformedSummaryError{Index: -1, Field: "(root)", Reason: fmt.Sprintf("error reading trend document %v", err)}
	}

	if len(bytes.TrimSpace(body.Trend)) == 0 || string(bytes.TrimSpace(body.Trend)) == "null" {
		return Document{}, &MalformedSummaryError{Index: -1, Field: "trend", Reason: "the document has no trend"}
	}

	t, err := DecodeTrend(body.Trend)
	if err != nil {
		return Document{}, err
	}

	return Document{Trend: t}, nil
}

// ValidateTrend checks a json trend against the trend schema.
// The first schema error found is returned as a MalformedSummaryError.
func ValidateTrend(trendBytes []byte) error {
	result, err := gojsonschema.Validate(trendSchemaLoader, gojsonschema.NewBytesLoader(trendBytes))
	if err != nil {
		return &MalformedSummaryError{Index: -1, Field: "(root)", Reason: fmt.Sprintf("error reading trend %v", err)}
	}

	if result.Valid() {
		return nil
	}

	return schemaError(result.Errors()[0])
}

// schemaError converts a schema error into a MalformedSummaryError.
// The field path of a trend error is of the form "3.versions.0.name".
func schemaError(desc gojsonschema.ResultError) error {
	index := -1
	field := "(root)"

	for _, part := range strings.Split(desc.Field(), ".") {
		pos, err := strconv.Atoi(part)
		if err != nil {
			if field == "(root)" && part != "" && part != "(root)" {
				field = part
			}
			continue
		}
		if index == -1 {
			index = pos
		}
	}

	// required errors are reported against the parent object
	if desc.Type() == "required" {
		if property, ok := desc.Details()["property"].(string); ok {
			field = property
		}
	}

	return &MalformedSummaryError{Index: index, Field: field, Reason: desc.Description()}
}

// Decode decodes either a bare trend or a {"trend": [...]} document
func Decode(in []byte) (Trend, error) {
	trimmed := bytes.TrimSpace(in)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		doc, err := DecodeDocument(trimmed)
		return doc.Trend, err
	}

	return DecodeTrend(trimmed)
}
