/*
oracles.go - Derived facts the gates are built on

PURPOSE:
  Three small resolutions shared by every validator:
  - IsEmployeeActive: is the employee allowed to be the subject of anything?
  - HasActiveMedicalLeave: does any leave row carry is_active = true?
  - permissionCoveringToday: is there an approved permission whose range
    contains today?

  The medical-leave and permission reads honor the engine FailMode
  (see engine.go); the employee read always propagates failures.
*/
package engine

import (
	"context"
	"fmt"
)

// IsEmployeeActive resolves whether the employee exists and is active.
// A missing employee denies with the same code as an inactive one: from the
// caller's perspective both mean "this person cannot be operated on".
func (e *Engine) IsEmployeeActive(ctx context.Context, id EmployeeID) (ValidationResult, error) {
	emp, err := e.repo.GetEmployee(ctx, id)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("fetch employee %s: %w", id, err)
	}
	if emp == nil {
		return DenyWithDetails(CodeEmployeeNotActive,
			"employee not found",
			map[string]any{"employee_id": string(id)}), nil
	}
	if !emp.Status.IsActive() {
		return DenyWithDetails(CodeEmployeeNotActive,
			fmt.Sprintf("employee is not active (status: %s)", emp.Status),
			map[string]any{"status": string(emp.Status)}), nil
	}
	return Allow(), nil
}

// HasActiveMedicalLeave reports whether at least one medical leave row for
// the employee has its active flag set. Only the flag is consulted; date
// ranges on the rows are not.
func (e *Engine) HasActiveMedicalLeave(ctx context.Context, id EmployeeID) (bool, error) {
	leaves, err := e.repo.ListMedicalLeaves(ctx, id)
	if err != nil {
		if e.failMode == FailOpen {
			e.log.WithError(err).WithField("employee_id", id).
				Warn("medical leave read failed, treating as no active leave")
			return false, nil
		}
		return false, fmt.Errorf("list medical leaves for %s: %w", id, err)
	}
	for _, l := range leaves {
		if l.IsActive {
			return true, nil
		}
	}
	return false, nil
}

// permissionCoveringToday returns the first approved permission whose date
// range contains today, or nil. Note: overlap is checked against TODAY, not
// against the range of a permission being requested. That is the observed
// behavior of the system this engine mirrors; see CanCreatePermission.
func (e *Engine) permissionCoveringToday(ctx context.Context, id EmployeeID) (*Permission, error) {
	perms, err := e.repo.ListPermissionsByStatus(ctx, id, PermissionApproved)
	if err != nil {
		if e.failMode == FailOpen {
			e.log.WithError(err).WithField("employee_id", id).
				Warn("permission overlap read failed, treating as no overlap")
			return nil, nil
		}
		return nil, fmt.Errorf("list approved permissions for %s: %w", id, err)
	}
	today := e.clock.Today()
	for i := range perms {
		if perms[i].Covers(today) {
			return &perms[i], nil
		}
	}
	return nil, nil
}
