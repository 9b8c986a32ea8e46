package contract_test

import (
	"maps"
	"reflect"
	"slices"
	"strings"
	"testing"

	"tracking/internal/adapters/in/http/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSwagger(t *testing.T) {
	doc, err := contract.GetSwagger()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(t.Context()))

	for _, path := range []string{
		"/api/v1/checkpoints",
		"/api/v1/units",
		"/api/v1/tracking/{trackingId}",
		"/api/v1/shipments",
		"/api/v1/jobs/status",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}

	status := doc.Components.Schemas["UnitStatus"]
	require.NotNil(t, status)
	assert.Len(t, status.Value.Enum, 7)
}

func TestWireTypesMatchSchemas(t *testing.T) {
	doc, err := contract.GetSwagger()
	require.NoError(t, err)

	for name, value := range map[string]any{
		"Checkpoint":                 contract.Checkpoint{},
		"CheckpointData":             contract.CheckpointData{},
		"CreateUnitRequest":          contract.CreateUnitRequest{},
		"CreateUnitResponse":         contract.CreateUnitResponse{},
		"DeadLetter":                 contract.DeadLetter{},
		"Error":                      contract.Error{},
		"JobsStatusResponse":         contract.JobsStatusResponse{},
		"ListShipmentsResponse":      contract.ListShipmentsResponse{},
		"Pagination":                 contract.Pagination{},
		"QueueStatus":                contract.QueueStatus{},
		"RegisterCheckpointRequest":  contract.RegisterCheckpointRequest{},
		"RegisterCheckpointResponse": contract.RegisterCheckpointResponse{},
		"TrackingHistoryResponse":    contract.TrackingHistoryResponse{},
		"Unit":                       contract.Unit{},
		"WorkerStatus":               contract.WorkerStatus{},
	} {
		t.Run(name, func(t *testing.T) {
			schema := doc.Components.Schemas[name]
			require.NotNil(t, schema)

			assert.Equal(t,
				slices.Sorted(maps.Keys(schema.Value.Properties)),
				jsonFields(reflect.TypeOf(value)),
			)
		})
	}
}

func jsonFields(typ reflect.Type) []string {
	fields := make([]string, 0, typ.NumField())
	for i := range typ.NumField() {
		tag, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
		if tag != "" && tag != "-" {
			fields = append(fields, tag)
		}
	}
	slices.Sort(fields)
	return fields
}
