package v1

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed batch_update.schema.json
var batchUpdateSchema []byte

var loadBatchUpdateSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(batchUpdateSchema))
})

// checkBatchUpdate returns the schema problems of a raw batch update body.
// A body that is not JSON is reported as a single problem.
func checkBatchUpdate(body []byte) ([]string, error) {
	schema, err := loadBatchUpdateSchema()
	if err != nil {
		return nil, fmt.Errorf("load batch update schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []string{"body is not valid JSON"}, nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems, nil
}
