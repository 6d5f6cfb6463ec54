package engine_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/austral/eligibility-engine/engine"
	"github.com/austral/eligibility-engine/engine/store"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================
// Shared across the engine test files. All tests pin the clock to a fixed
// day so temporal assertions never depend on when the suite runs.

// today is the frozen "now" for every engine test.
var today = engine.NewDate(2024, time.January, 10)

var yesterday = today.AddDays(-1)
var tomorrow = today.AddDays(1)

func newTestEngine(opts ...engine.Option) (*engine.Engine, *store.Memory) {
	repo := store.NewMemory()
	opts = append([]engine.Option{engine.WithClock(engine.FixedClock{Day: today})}, opts...)
	return engine.New(repo, opts...), repo
}

func ctx() context.Context { return context.Background() }

func dptr(d engine.Date) *engine.Date { return &d }

func activeEmployee(id string) engine.Employee {
	return engine.Employee{
		ID:       engine.EmployeeID(id),
		Name:     "Test Employee",
		Status:   engine.EmployeeActive,
		HireDate: today.AddDays(-365),
	}
}

// contractAt builds a contract with an explicit updated_at so recency
// ordering is controlled by the test.
func contractAt(id, employeeID string, status engine.ContractStatus, typ engine.ContractType, start engine.Date, end *engine.Date, updatedAt time.Time) engine.Contract {
	return engine.Contract{
		ID:         engine.ContractID(id),
		EmployeeID: engine.EmployeeID(employeeID),
		Status:     status,
		Type:       typ,
		BaseSalary: decimal.NewFromInt(700000),
		StartDate:  start,
		EndDate:    end,
		UpdatedAt:  updatedAt,
	}
}

func contract(id, employeeID string, status engine.ContractStatus, typ engine.ContractType, start engine.Date, end *engine.Date) engine.Contract {
	return contractAt(id, employeeID, status, typ, start, end, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))
}

func approvedPermission(id, employeeID string, start, end engine.Date) engine.Permission {
	return engine.Permission{
		ID:         engine.PermissionID(id),
		EmployeeID: engine.EmployeeID(employeeID),
		Status:     engine.PermissionApproved,
		StartDate:  start,
		EndDate:    end,
	}
}

func activeLeave(id, employeeID string) engine.MedicalLeave {
	return engine.MedicalLeave{
		ID:         engine.MedicalLeaveID(id),
		EmployeeID: engine.EmployeeID(employeeID),
		IsActive:   true,
		StartDate:  today.AddDays(-3),
	}
}

// faultyRepo wraps a Repository and fails selected reads, for exercising
// the engine's failure policy.
type faultyRepo struct {
	engine.Repository
	failLeaves      bool
	failPermissions bool
}

type readFailure struct{}

func (readFailure) Error() string { return "simulated read failure" }

func (f *faultyRepo) ListMedicalLeaves(c context.Context, id engine.EmployeeID) ([]engine.MedicalLeave, error) {
	if f.failLeaves {
		return nil, readFailure{}
	}
	return f.Repository.ListMedicalLeaves(c, id)
}

func (f *faultyRepo) ListPermissionsByStatus(c context.Context, id engine.EmployeeID, status engine.PermissionStatus) ([]engine.Permission, error) {
	if f.failPermissions {
		return nil, readFailure{}
	}
	return f.Repository.ListPermissionsByStatus(c, id, status)
}
