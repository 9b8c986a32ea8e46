// Package swaggerdoc exposes the OpenAPI document to the swagger UI served by
// echo-swagger.
package swaggerdoc

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

var (
	current  atomic.Pointer[string]
	register sync.Once
)

type document struct{}

func (document) ReadDoc() string {
	if doc := current.Load(); doc != nil {
		return *doc
	}
	return ""
}

// Register publishes doc under swag's default instance name. Later calls
// replace the published document.
func Register(doc *openapi3.T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	s := string(data)
	current.Store(&s)

	register.Do(func() {
		swag.Register(swag.Name, document{})
	})

	return nil
}
