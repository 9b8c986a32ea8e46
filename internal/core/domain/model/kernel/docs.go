// Package kernel holds the identifier value objects shared by every aggregate
// of the tracking domain:
//   - UUID: surrogate identity of units and ledger entries
//   - TrackingID: the business key a caller uses to address a unit
//
// Both are immutable, validated on construction, and reject their zero value
// in Validate so an uninitialized identifier never reaches persistence.
package kernel
