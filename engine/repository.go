/*
repository.go - Read interfaces consumed by the engine

PURPOSE:
  Defines the boundary between the decision logic and whatever stores the
  records. The engine is strictly read-only: these interfaces expose point
  lookups and filtered listings, nothing else. Writes happen in the caller
  layer against the concrete store.

MISSING RECORDS:
  Point lookups return (nil, nil) when the record does not exist. A non-nil
  error always means the read itself failed, never "not found". Gates map a
  missing record to the appropriate denial; infrastructure errors propagate
  (subject to the engine's FailMode for the two fail-open-capable reads,
  see oracles.go).

IMPLEMENTATIONS:
  - store/sqlite: production store
  - engine/store: in-memory store for tests and demos
*/
package engine

import "context"

type EmployeeReader interface {
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
}

type ContractReader interface {
	GetContract(ctx context.Context, id ContractID) (*Contract, error)

	// ListContractsByStatus returns the employee's contracts whose status is
	// in the given set, in no particular order. Ordering is the resolver's
	// concern, not the store's.
	ListContractsByStatus(ctx context.Context, employeeID EmployeeID, statuses ...ContractStatus) ([]Contract, error)
}

type AnnexReader interface {
	ListAnnexesByContract(ctx context.Context, contractID ContractID) ([]Annex, error)
}

type MedicalLeaveReader interface {
	ListMedicalLeaves(ctx context.Context, employeeID EmployeeID) ([]MedicalLeave, error)
}

type PermissionReader interface {
	// ListPermissionsByStatus returns the employee's permissions with the
	// given status.
	ListPermissionsByStatus(ctx context.Context, employeeID EmployeeID, status PermissionStatus) ([]Permission, error)
}

type SettlementReader interface {
	ListSettlements(ctx context.Context, employeeID EmployeeID) ([]Settlement, error)
}

// Repository is everything the engine needs to read. The concrete stores
// implement the whole thing; tests may stub individual readers.
type Repository interface {
	EmployeeReader
	ContractReader
	AnnexReader
	MedicalLeaveReader
	PermissionReader
	SettlementReader
}
