// Package contract holds the echo server interface and the wire types of the
// HTTP API described by api/openapi.yaml. It is maintained by hand in the
// layout oapi-codegen uses; TestWireTypesMatchSchemas fails when a type and
// its schema disagree on property names.
package contract

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	ApiKeyAuthScopes = "ApiKeyAuth.Scopes"
)

// UnitStatus values.
const (
	UnitStatusCREATED        UnitStatus = "CREATED"
	UnitStatusPICKEDUP       UnitStatus = "PICKED_UP"
	UnitStatusINTRANSIT      UnitStatus = "IN_TRANSIT"
	UnitStatusATFACILITY     UnitStatus = "AT_FACILITY"
	UnitStatusOUTFORDELIVERY UnitStatus = "OUT_FOR_DELIVERY"
	UnitStatusDELIVERED      UnitStatus = "DELIVERED"
	UnitStatusEXCEPTION      UnitStatus = "EXCEPTION"
)

// WorkerStatusStatus values.
const (
	WorkerStatusStatusAlive WorkerStatusStatus = "alive"
	WorkerStatusStatusDown  WorkerStatusStatus = "down"
)

// Checkpoint mirrors the Checkpoint schema.
type Checkpoint struct {
	CreatedAt  time.Time          `json:"created_at"`
	Id         openapi_types.UUID `json:"id"`
	Location   *string            `json:"location"`
	Notes      *string            `json:"notes"`
	OperatorId *string            `json:"operator_id"`
	Status     UnitStatus         `json:"status"`
	Timestamp  time.Time          `json:"timestamp"`
	TrackingId string             `json:"tracking_id"`
}

// CheckpointData mirrors the CheckpointData schema.
type CheckpointData struct {
	Location   *string    `json:"location"`
	Notes      *string    `json:"notes"`
	OperatorId *string    `json:"operator_id"`
	Status     UnitStatus `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
}

// CreateUnitRequest mirrors the CreateUnitRequest schema.
type CreateUnitRequest struct {
	InitialStatus *UnitStatus `json:"initial_status,omitempty"`
	TrackingId    string      `json:"tracking_id"`
}

// CreateUnitResponse mirrors the CreateUnitResponse schema.
type CreateUnitResponse struct {
	InitialCheckpoint Checkpoint `json:"initial_checkpoint"`
	Unit              Unit       `json:"unit"`
}

// DeadLetter mirrors the DeadLetter schema.
type DeadLetter struct {
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	Id         string    `json:"id"`
	LastError  string    `json:"last_error"`
	MaxRetries int       `json:"max_retries"`
	Name       string    `json:"name"`
	Queue      string    `json:"queue"`
}

// Error mirrors the Error schema.
type Error struct {
	Details *map[string]interface{} `json:"details,omitempty"`
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
}

// JobsStatusResponse mirrors the JobsStatusResponse schema.
type JobsStatusResponse struct {
	DeadLetters []DeadLetter  `json:"dead_letters"`
	Delayed     int64         `json:"delayed"`
	Queues      []QueueStatus `json:"queues"`
	Timestamp   time.Time     `json:"timestamp"`
	Worker      WorkerStatus  `json:"worker"`
}

// ListShipmentsResponse mirrors the ListShipmentsResponse schema.
type ListShipmentsResponse struct {
	Pagination Pagination `json:"pagination"`
	Status     UnitStatus `json:"status"`
	Units      []Unit     `json:"units"`
}

// Pagination mirrors the Pagination schema.
type Pagination struct {
	HasMore bool  `json:"has_more"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
}

// QueueStatus mirrors the QueueStatus schema.
type QueueStatus struct {
	Name    string `json:"name"`
	Pending int64  `json:"pending"`
}

// RegisterCheckpointRequest mirrors the RegisterCheckpointRequest schema.
type RegisterCheckpointRequest struct {
	Location   *string    `json:"location,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	OperatorId *string    `json:"operator_id,omitempty"`
	Status     UnitStatus `json:"status"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	TrackingId string     `json:"tracking_id"`
}

// RegisterCheckpointResponse mirrors the RegisterCheckpointResponse schema.
type RegisterCheckpointResponse struct {
	Checkpoint Checkpoint `json:"checkpoint"`
	Unit       Unit       `json:"unit"`
}

// TrackingHistoryResponse mirrors the TrackingHistoryResponse schema.
type TrackingHistoryResponse struct {
	Checkpoints      []Checkpoint `json:"checkpoints"`
	TotalCheckpoints int          `json:"total_checkpoints"`
	Unit             Unit         `json:"unit"`
}

// Unit mirrors the Unit schema.
type Unit struct {
	Checkpoints   []CheckpointData   `json:"checkpoints"`
	CreatedAt     time.Time          `json:"created_at"`
	CurrentStatus UnitStatus         `json:"current_status"`
	DeliveryTime  *time.Time         `json:"delivery_time"`
	HasException  bool               `json:"has_exception"`
	Id            openapi_types.UUID `json:"id"`
	IsDelivered   bool               `json:"is_delivered"`
	TrackingId    string             `json:"tracking_id"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// UnitStatus mirrors the UnitStatus schema.
type UnitStatus string

// WorkerStatus mirrors the WorkerStatus schema.
type WorkerStatus struct {
	LastHeartbeat *time.Time         `json:"last_heartbeat"`
	Status        WorkerStatusStatus `json:"status"`
}

// WorkerStatusStatus mirrors the WorkerStatus.Status schema.
type WorkerStatusStatus string

// ListShipmentsParams holds the query parameters of ListShipments.
type ListShipmentsParams struct {
	Status UnitStatus `form:"status" json:"status"`
	Limit  *int       `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int       `form:"offset,omitempty" json:"offset,omitempty"`
}

// RegisterCheckpointJSONRequestBody is the JSON body of RegisterCheckpoint.
type RegisterCheckpointJSONRequestBody = RegisterCheckpointRequest

// CreateUnitJSONRequestBody is the JSON body of CreateUnit.
type CreateUnitJSONRequestBody = CreateUnitRequest
