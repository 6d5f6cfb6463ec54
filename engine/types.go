/*
Package engine is the employment-lifecycle eligibility engine.

PURPOSE:
  Decides, for a given employee and a requested operation, whether the
  operation is currently permitted. "Permitted" is never a stored flag:
  it is derived on demand from the resolved state of several
  temporally-qualified records (employee status, contract status/type/dates,
  annex status, active medical leave, prior settlements, overlapping
  permissions).

KEY CONCEPTS IN THIS FILE (types.go):
  - Record types: Employee, Contract, Annex, MedicalLeave, Permission,
    Settlement. The engine only ever READS these; all writes happen in the
    caller layer.
  - Closed status enums with predicate methods. Gates never compare against
    ad hoc status-set literals; they call a named predicate so that adding a
    status forces every call site to be revisited.

DESIGN PRINCIPLES:
  1. Read-only: no engine component mutates state.
  2. Derived truth: "active contract" is resolved, not stored (resolver.go).
  3. Denials are values: expected refusals are ValidationResult, never errors.
  4. Precision: monetary fields use decimal.Decimal and are carried, not
     computed on. Payroll arithmetic lives outside this engine.

SEE ALSO:
  - resolver.go: the active-contract resolution algorithm
  - contracts.go, annexes.go, modules.go: the operation gates
  - repository.go: the read interfaces this engine consumes
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type ContractID string
type AnnexID string
type MedicalLeaveID string
type PermissionID string
type SettlementID string

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeStatus string

const (
	EmployeeActive       EmployeeStatus = "active"
	EmployeeInactive     EmployeeStatus = "inactive"
	EmployeeMedicalLeave EmployeeStatus = "medical_leave"
	EmployeeResignation  EmployeeStatus = "resignation"
	EmployeeDismissal    EmployeeStatus = "dismissal"
)

// IsActive reports whether the employee may be the subject of any gated
// operation. Every gate checks this before touching contract state.
func (s EmployeeStatus) IsActive() bool { return s == EmployeeActive }

type Employee struct {
	ID       EmployeeID
	Name     string
	Status   EmployeeStatus
	HireDate Date
}

// =============================================================================
// CONTRACT
// =============================================================================

type ContractStatus string

const (
	ContractDraft      ContractStatus = "draft"
	ContractIssued     ContractStatus = "issued"
	ContractSigned     ContractStatus = "signed"
	ContractActive     ContractStatus = "active"
	ContractTerminated ContractStatus = "terminated"
	ContractCancelled  ContractStatus = "cancelled"
)

// IsTerminal reports whether the contract can never change status again.
func (s ContractStatus) IsTerminal() bool {
	return s == ContractTerminated || s == ContractCancelled
}

// Resolvable reports whether a contract in this status is a candidate for
// active-contract resolution. Only signed and active contracts can be "the
// contract in force"; drafts and issued contracts are not yet binding.
func (s ContractStatus) Resolvable() bool {
	return s == ContractActive || s == ContractSigned
}

// AnnexEligible reports whether an annex may be attached to a contract in
// this status. Issued contracts accept annexes even though they are not yet
// resolvable: amendments can be prepared while signatures are pending.
func (s ContractStatus) AnnexEligible() bool {
	return s == ContractActive || s == ContractIssued || s == ContractSigned
}

type ContractType string

const (
	ContractIndefinite ContractType = "indefinite"
	ContractFixedTerm  ContractType = "fixed_term"
	ContractProject    ContractType = "project_based"
	ContractPartTime   ContractType = "part_time"
)

// Contract is an employment contract. EndDate is nil for open-ended
// contracts; for indefinite contracts a stored EndDate is IGNORED by the
// resolver (historical data is known to carry stale end dates).
type Contract struct {
	ID         ContractID
	EmployeeID EmployeeID
	Status     ContractStatus
	Type       ContractType
	BaseSalary decimal.Decimal
	StartDate  Date
	EndDate    *Date
	UpdatedAt  time.Time
}

// Expired reports whether the contract's stored end date has passed.
// Indefinite contracts never expire, whatever their stored end date says.
func (c Contract) Expired(today Date) bool {
	if c.Type == ContractIndefinite {
		return false
	}
	return c.EndDate != nil && c.EndDate.Before(today)
}

// =============================================================================
// ANNEX - amendment scoped to exactly one contract
// =============================================================================

type AnnexStatus string

const (
	AnnexDraft     AnnexStatus = "draft"
	AnnexIssued    AnnexStatus = "issued"
	AnnexSigned    AnnexStatus = "signed"
	AnnexActive    AnnexStatus = "active"
	AnnexCancelled AnnexStatus = "cancelled"
)

// Annex amends an existing contract (salary change, role change, schedule
// change). Never created standalone. NewSalary is carried for the caller
// layer; the engine does not compute with it.
type Annex struct {
	ID          AnnexID
	ContractID  ContractID
	Status      AnnexStatus
	Description string
	NewSalary   decimal.Decimal
	StartDate   Date
	EndDate     *Date
}

// =============================================================================
// MEDICAL LEAVE
// =============================================================================

// MedicalLeave is consulted by eligibility checks through the IsActive flag
// only. The date range is stored for other parts of the system; the flag is
// the authoritative input here.
type MedicalLeave struct {
	ID         MedicalLeaveID
	EmployeeID EmployeeID
	IsActive   bool
	StartDate  Date
	EndDate    *Date
}

// =============================================================================
// PERMISSION - leave/absence request
// =============================================================================

type PermissionStatus string

const (
	PermissionPending  PermissionStatus = "pending"
	PermissionApproved PermissionStatus = "approved"
	PermissionRejected PermissionStatus = "rejected"
)

type Permission struct {
	ID         PermissionID
	EmployeeID EmployeeID
	Status     PermissionStatus
	StartDate  Date
	EndDate    Date
}

// Covers reports whether day falls inside the permission's date range,
// inclusive on both ends.
func (p Permission) Covers(day Date) bool {
	return p.StartDate.BeforeOrEqual(day) && day.BeforeOrEqual(p.EndDate)
}

// =============================================================================
// SETTLEMENT ("finiquito")
// =============================================================================

type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "pending"
	SettlementApproved SettlementStatus = "approved"
	SettlementRejected SettlementStatus = "rejected"
)

// Settlement is the formal closure record after a contract termination.
// An approved settlement unblocks contract re-creation.
type Settlement struct {
	ID         SettlementID
	EmployeeID EmployeeID
	Status     SettlementStatus
	IssuedAt   Date
}
