/*
annexes.go - Annex lifecycle gates

PURPOSE:
  An annex amends exactly one contract, so annex creation is gated on the
  state of its parent: the employee must be active, there must be a contract
  to amend, and the employee must not be on an active medical leave.

TWO ENTRY POINTS, TWO STATUS SETS:
  CanCreateAnnex goes through the resolver, so the parent is by construction
  in a resolvable status ({active, signed}). CanCreateAnnexForContract takes
  the parent directly and accepts the wider annex-eligible set
  ({active, issued, signed}): amendments may be prepared against an issued
  contract whose signatures are still pending. The sets intentionally
  differ; both are expressed as ContractStatus predicates, not set literals.
*/
package engine

import (
	"context"
	"fmt"
)

// CanCreateAnnex gates annex creation for an employee. contractID is
// optional; pass "" to amend whichever contract resolves as active. When
// supplied it must match the resolved active contract.
func (e *Engine) CanCreateAnnex(ctx context.Context, employeeID EmployeeID, contractID ContractID) (ValidationResult, error) {
	if res, err := e.IsEmployeeActive(ctx, employeeID); err != nil || !res.Allowed {
		return res, err
	}

	active, err := e.ResolveActiveContract(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if !active.HasActive {
		return Deny(CodeEmployeeNoActiveContract,
			"employee has no active contract to amend"), nil
	}
	if contractID != "" {
		if active.Contract.ID != contractID {
			return DenyWithDetails(CodeContractNotFound,
				"contract is not the employee's active contract",
				map[string]any{
					"contract_id":        string(contractID),
					"active_contract_id": string(active.Contract.ID),
				}), nil
		}
		if !active.Contract.Status.Resolvable() {
			return DenyWithDetails(CodeContractInvalidStatus,
				fmt.Sprintf("contract status %s does not accept annexes", active.Contract.Status),
				map[string]any{"status": string(active.Contract.Status)}), nil
		}
	}

	onLeave, err := e.HasActiveMedicalLeave(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if onLeave {
		return Deny(CodeEmployeeHasActiveMedicalLeave,
			"annex cannot be created while the employee is on medical leave"), nil
	}
	return Allow(), nil
}

// CanCreateAnnexForContract gates annex creation starting from the parent
// contract instead of the employee. The parent must be annex-eligible
// (active, issued or signed), its employee active and not on medical leave.
func (e *Engine) CanCreateAnnexForContract(ctx context.Context, contractID ContractID) (ValidationResult, error) {
	contract, err := e.repo.GetContract(ctx, contractID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("fetch contract %s: %w", contractID, err)
	}
	if contract == nil {
		return DenyWithDetails(CodeContractNotFound,
			"contract not found",
			map[string]any{"contract_id": string(contractID)}), nil
	}
	if !contract.Status.AnnexEligible() {
		return DenyWithDetails(CodeContractInvalidStatus,
			fmt.Sprintf("contract status %s does not accept annexes", contract.Status),
			map[string]any{"status": string(contract.Status)}), nil
	}

	if res, err := e.IsEmployeeActive(ctx, contract.EmployeeID); err != nil || !res.Allowed {
		return res, err
	}

	onLeave, err := e.HasActiveMedicalLeave(ctx, contract.EmployeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if onLeave {
		return Deny(CodeEmployeeHasActiveMedicalLeave,
			"annex cannot be created while the employee is on medical leave"), nil
	}
	return Allow(), nil
}
