package queries

import (
	"errors"

	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/guard"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

var ErrListUnitsByStatusQueryIsNotConstructed = errors.New(
	"ListUnitsByStatusQuery must be created via NewListUnitsByStatusQuery constructor",
)

// ListUnitsByStatusQuery requests one page of units in a given status.
// A limit outside (0, 1000] falls back to 100 and a negative offset to 0.
type ListUnitsByStatusQuery struct {
	status unit.Status
	limit  int
	offset int

	guard guard.ConstructorGuard
}

func NewListUnitsByStatusQuery(status string, limit, offset int) (ListUnitsByStatusQuery, error) {
	if status == "" {
		return ListUnitsByStatusQuery{}, errs.NewValueIsRequiredError("status")
	}

	parsed, err := unit.ParseStatus(status)
	if err != nil {
		return ListUnitsByStatusQuery{}, err
	}

	if limit <= 0 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	return ListUnitsByStatusQuery{
		status: parsed,
		limit:  limit,
		offset: offset,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListUnitsByStatusQuery) Validate() error {
	return q.guard.Validate(ErrListUnitsByStatusQueryIsNotConstructed)
}

func (q ListUnitsByStatusQuery) Status() unit.Status {
	return q.status
}

func (q ListUnitsByStatusQuery) Limit() int {
	return q.limit
}

func (q ListUnitsByStatusQuery) Offset() int {
	return q.offset
}

// Pagination describes the returned page relative to the full matching set.
type Pagination struct {
	Total   int64
	Limit   int
	Offset  int
	HasMore bool
}

// ListUnitsByStatusQueryResponse is one page of units.
type ListUnitsByStatusQueryResponse struct {
	Units      []*unit.Unit
	Pagination Pagination
	Status     unit.Status
}
