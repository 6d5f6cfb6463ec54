/*
modules.go - Dependent-module gate and its specializations

PURPOSE:
  Most of the surrounding system hangs off one question: "does this employee
  have a resolved-active contract?". CanOperateModule answers it once,
  parameterized by the module asking, and backs disciplinary actions,
  advances, overtime pacts, vacations and payroll-slip generation directly.

SPECIALIZATIONS:
  - Loans additionally require the active contract to be indefinite.
  - Permissions additionally require no approved permission covering today.
  - Certificates use the gate alone and deliberately SKIP the medical-leave
    check: an employee on leave must still be able to obtain a certificate.
  - Documents are the most permissive: employee-active only.
*/
package engine

import (
	"context"
	"fmt"
)

// Module names the operation asking for the gate; it is embedded in denial
// messages so the user knows which feature refused them.
type Module string

const (
	ModuleLoans          Module = "loans"
	ModulePermissions    Module = "permissions"
	ModuleDisciplinary   Module = "disciplinary_actions"
	ModuleAdvances       Module = "advances"
	ModuleOvertimePacts  Module = "overtime_pacts"
	ModuleVacations      Module = "vacations"
	ModulePayroll        Module = "payroll"
	ModuleCertificates   Module = "certificates"
	ModuleDocuments      Module = "documents"
)

// CanOperateModule is the reusable gate: employee active and a
// resolved-active contract. The denial embeds the module name.
func (e *Engine) CanOperateModule(ctx context.Context, employeeID EmployeeID, module Module) (ValidationResult, error) {
	if res, err := e.IsEmployeeActive(ctx, employeeID); err != nil || !res.Allowed {
		return res, err
	}

	active, err := e.ResolveActiveContract(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if !active.HasActive {
		return DenyWithDetails(CodeEmployeeNoActiveContract,
			fmt.Sprintf("employee has no active contract required by %s", module),
			map[string]any{"module": string(module)}), nil
	}
	return Allow(), nil
}

// CanCreateLoan gates loan creation: the module gate plus the contract must
// be indefinite. Fixed-term employment cannot guarantee repayment terms.
func (e *Engine) CanCreateLoan(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	if res, err := e.IsEmployeeActive(ctx, employeeID); err != nil || !res.Allowed {
		return res, err
	}

	active, err := e.ResolveActiveContract(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if !active.HasActive {
		return DenyWithDetails(CodeEmployeeNoActiveContract,
			fmt.Sprintf("employee has no active contract required by %s", ModuleLoans),
			map[string]any{"module": string(ModuleLoans)}), nil
	}
	if active.Contract.Type != ContractIndefinite {
		return DenyWithDetails(CodeLoanRequiresIndefinido,
			fmt.Sprintf("loans require an indefinite contract (type: %s)", active.Contract.Type),
			map[string]any{"type": string(active.Contract.Type)}), nil
	}
	return Allow(), nil
}

// CanCreatePermission gates a new permission request: the module gate plus
// no approved permission covering today. The check is against today, not
// against the range being requested; that mirrors observed behavior.
func (e *Engine) CanCreatePermission(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	if res, err := e.CanOperateModule(ctx, employeeID, ModulePermissions); err != nil || !res.Allowed {
		return res, err
	}

	covering, err := e.permissionCoveringToday(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if covering != nil {
		return DenyWithDetails(CodePermissionAlreadyActive,
			"employee already has an approved permission covering today",
			map[string]any{
				"permission_id": string(covering.ID),
				"start_date":    covering.StartDate.String(),
				"end_date":      covering.EndDate.String(),
			}), nil
	}
	return Allow(), nil
}

// CanGenerateCertificate gates certificate issuance. No medical-leave check:
// certificates remain obtainable during leave.
func (e *Engine) CanGenerateCertificate(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	return e.CanOperateModule(ctx, employeeID, ModuleCertificates)
}

// CanGenerateDocument is the most permissive gate: employee-active only, no
// contract requirement.
func (e *Engine) CanGenerateDocument(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	return e.IsEmployeeActive(ctx, employeeID)
}

// Named wrappers for the modules backed directly by the gate.

func (e *Engine) CanCreateDisciplinaryAction(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	return e.CanOperateModule(ctx, employeeID, ModuleDisciplinary)
}

func (e *Engine) CanCreateAdvance(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	return e.CanOperateModule(ctx, employeeID, ModuleAdvances)
}

func (e *Engine) CanCreateOvertimePact(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	return e.CanOperateModule(ctx, employeeID, ModuleOvertimePacts)
}

func (e *Engine) CanCreateVacation(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	return e.CanOperateModule(ctx, employeeID, ModuleVacations)
}

func (e *Engine) CanGeneratePayrollSlip(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	return e.CanOperateModule(ctx, employeeID, ModulePayroll)
}
