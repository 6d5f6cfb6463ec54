/*
result.go - The universal gate contract

PURPOSE:
  Every gate in this engine answers with a ValidationResult. Denials are
  expected, non-exceptional outcomes: they are returned as values, never as
  errors. Errors are reserved for infrastructure failures (a repository read
  that could not complete).

SHAPE:
  ValidationResult{
      Allowed: false,
      Code:    CodeEmployeeHasActiveContract,
      Message: "employee already has an active contract",
      Details: map[string]any{"suggestion": SuggestionCreateAnnex},
  }

  - Code is machine-readable, stable, and safe to branch/translate on.
  - Message is human-readable and shown to the user as-is.
  - Details carries remediation hints; the "suggestion" key drives
    next-action UI.

SEE ALSO:
  - api/dto.go: how a denial becomes an HTTP 400 body
*/
package engine

// Code identifies why a gate denied an operation.
type Code string

const (
	CodeEmployeeNotActive            Code = "EMPLOYEE_NOT_ACTIVE"
	CodeEmployeeHasActiveContract    Code = "EMPLOYEE_HAS_ACTIVE_CONTRACT"
	CodeEmployeeNoActiveContract     Code = "EMPLOYEE_NO_ACTIVE_CONTRACT"
	CodeEmployeeHasActiveMedicalLeave Code = "EMPLOYEE_HAS_ACTIVE_MEDICAL_LEAVE"
	CodeContractNotFound             Code = "CONTRACT_NOT_FOUND"
	CodeContractInvalidStatus        Code = "CONTRACT_INVALID_STATUS"
	CodeContractSettlementRequired   Code = "CONTRACT_SETTLEMENT_REQUIRED"
	CodeLoanRequiresIndefinido       Code = "LOAN_REQUIRES_INDEFINIDO_CONTRACT"
	CodePermissionAlreadyActive      Code = "PERMISSION_ALREADY_ACTIVE"
)

// Suggestion values surfaced under Details["suggestion"].
const (
	SuggestionCreateAnnex        = "create_annex"
	SuggestionCompleteSettlement = "complete_settlement"
)

// ValidationResult is the answer of every gate. When Allowed is true the
// remaining fields are zero; the caller proceeds with the write.
type ValidationResult struct {
	Allowed bool
	Code    Code
	Message string
	Details map[string]any
}

// Allow is the single allowed result.
func Allow() ValidationResult {
	return ValidationResult{Allowed: true}
}

// Deny builds a denial without details.
func Deny(code Code, message string) ValidationResult {
	return ValidationResult{Code: code, Message: message}
}

// DenyWithDetails builds a denial carrying remediation details.
func DenyWithDetails(code Code, message string, details map[string]any) ValidationResult {
	return ValidationResult{Code: code, Message: message, Details: details}
}
