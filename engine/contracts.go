/*
contracts.go - Contract lifecycle gates

PURPOSE:
  Gates contract creation, termination, modification, status changes, and
  re-creation after a termination. Built on the employee oracle, the active
  contract resolver, the medical leave oracle, and settlement lookups.

STATUS CHANGES:
  The contract state machine is draft -> issued -> signed -> active ->
  {terminated | cancelled}. CanChangeContractStatus programmatically
  validates exactly two transitions: signed -> active and active ->
  terminated. Other target statuses pass through unvalidated; their
  legality is the write layer's concern.
*/
package engine

import (
	"context"
	"fmt"
)

// CanCreateContract gates the creation of a brand-new contract: the employee
// must be active and must not already have a resolved-active contract.
func (e *Engine) CanCreateContract(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	if res, err := e.IsEmployeeActive(ctx, employeeID); err != nil || !res.Allowed {
		return res, err
	}

	active, err := e.ResolveActiveContract(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if active.HasActive {
		return DenyWithDetails(CodeEmployeeHasActiveContract,
			"employee already has an active contract",
			map[string]any{
				"contract_id": string(active.Contract.ID),
				"suggestion":  SuggestionCreateAnnex,
			}), nil
	}
	return Allow(), nil
}

// CanTerminateContract gates contract termination: the contract must exist,
// be active, and belong to an active employee.
func (e *Engine) CanTerminateContract(ctx context.Context, contractID ContractID) (ValidationResult, error) {
	contract, err := e.repo.GetContract(ctx, contractID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("fetch contract %s: %w", contractID, err)
	}
	if contract == nil {
		return DenyWithDetails(CodeContractNotFound,
			"contract not found",
			map[string]any{"contract_id": string(contractID)}), nil
	}
	if contract.Status != ContractActive {
		return DenyWithDetails(CodeContractInvalidStatus,
			fmt.Sprintf("only active contracts can be terminated (status: %s)", contract.Status),
			map[string]any{"status": string(contract.Status)}), nil
	}
	return e.IsEmployeeActive(ctx, contract.EmployeeID)
}

// CanCreateContractAfterTermination gates re-hiring: the employee must be
// active with no active contract, and if a most-recent terminated contract
// exists, an approved settlement must exist before a new contract may be
// created.
func (e *Engine) CanCreateContractAfterTermination(ctx context.Context, employeeID EmployeeID) (ValidationResult, error) {
	if res, err := e.IsEmployeeActive(ctx, employeeID); err != nil || !res.Allowed {
		return res, err
	}

	active, err := e.ResolveActiveContract(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if active.HasActive {
		return DenyWithDetails(CodeEmployeeHasActiveContract,
			"employee already has an active contract",
			map[string]any{
				"contract_id": string(active.Contract.ID),
				"suggestion":  SuggestionCreateAnnex,
			}), nil
	}

	terminated, err := e.latestTerminatedContract(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if terminated == nil {
		return Allow(), nil
	}

	approved, err := e.hasApprovedSettlement(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if !approved {
		return DenyWithDetails(CodeContractSettlementRequired,
			"an approved settlement is required before creating a new contract",
			map[string]any{
				"terminated_contract_id": string(terminated.ID),
				"suggestion":             SuggestionCompleteSettlement,
			}), nil
	}
	return Allow(), nil
}

// CanModifyContract gates modification of an existing contract: the contract
// must exist and belong to the employee, and the employee must not be on an
// active medical leave.
func (e *Engine) CanModifyContract(ctx context.Context, employeeID EmployeeID, contractID ContractID) (ValidationResult, error) {
	contract, err := e.repo.GetContract(ctx, contractID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("fetch contract %s: %w", contractID, err)
	}
	if contract == nil || contract.EmployeeID != employeeID {
		return DenyWithDetails(CodeContractNotFound,
			"contract not found for employee",
			map[string]any{
				"contract_id": string(contractID),
				"employee_id": string(employeeID),
			}), nil
	}

	onLeave, err := e.HasActiveMedicalLeave(ctx, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	if onLeave {
		return Deny(CodeEmployeeHasActiveMedicalLeave,
			"contract cannot be modified while the employee is on medical leave"), nil
	}
	return Allow(), nil
}

// CanChangeContractStatus validates a requested status transition. Only two
// target statuses are checked: active (must come from signed) and terminated
// (must come from active). Any other target passes through.
func (e *Engine) CanChangeContractStatus(ctx context.Context, contractID ContractID, newStatus ContractStatus) (ValidationResult, error) {
	contract, err := e.repo.GetContract(ctx, contractID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("fetch contract %s: %w", contractID, err)
	}
	if contract == nil {
		return DenyWithDetails(CodeContractNotFound,
			"contract not found",
			map[string]any{"contract_id": string(contractID)}), nil
	}

	switch newStatus {
	case ContractActive:
		if contract.Status != ContractSigned {
			return DenyWithDetails(CodeContractInvalidStatus,
				fmt.Sprintf("contract can only be activated from signed (status: %s)", contract.Status),
				map[string]any{"status": string(contract.Status)}), nil
		}
	case ContractTerminated:
		if contract.Status != ContractActive {
			return DenyWithDetails(CodeContractInvalidStatus,
				fmt.Sprintf("contract can only be terminated from active (status: %s)", contract.Status),
				map[string]any{"status": string(contract.Status)}), nil
		}
	}
	return Allow(), nil
}

// ValidateContractType is a generic membership guard reused by rules that
// only apply to certain contract types (e.g. loans).
func (e *Engine) ValidateContractType(contract Contract, allowed ...ContractType) ValidationResult {
	for _, t := range allowed {
		if contract.Type == t {
			return Allow()
		}
	}
	return DenyWithDetails(CodeContractInvalidStatus,
		fmt.Sprintf("contract type %s is not allowed for this operation", contract.Type),
		map[string]any{"type": string(contract.Type)})
}

// hasApprovedSettlement reports whether any settlement for the employee is
// approved. Settlement reads fail closed regardless of FailMode: a missing
// settlement blocks re-hiring, it never grants anything.
func (e *Engine) hasApprovedSettlement(ctx context.Context, employeeID EmployeeID) (bool, error) {
	settlements, err := e.repo.ListSettlements(ctx, employeeID)
	if err != nil {
		return false, fmt.Errorf("list settlements for %s: %w", employeeID, err)
	}
	for _, s := range settlements {
		if s.Status == SettlementApproved {
			return true, nil
		}
	}
	return false, nil
}
