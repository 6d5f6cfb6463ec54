/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

THE DENIAL CONTRACT:
  Every denied gate surfaces as HTTP 400 with the ErrorResponse shape:
    { "error": <message>, "code": <code>, "details": {...} }
  Allowed results are never serialized on write endpoints; the handler
  proceeds with the write. Preflight check endpoints serialize the full
  ValidationResultDTO instead, allowed or not.
*/
package api

import (
	"time"

	"github.com/austral/eligibility-engine/engine"
)

// =============================================================================
// ERROR / VALIDATION CONTRACT
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// ValidationResultDTO is the preflight answer for check endpoints.
type ValidationResultDTO struct {
	Allowed bool           `json:"allowed"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func toValidationResultDTO(r engine.ValidationResult) ValidationResultDTO {
	return ValidationResultDTO{
		Allowed: r.Allowed,
		Code:    string(r.Code),
		Message: r.Message,
		Details: r.Details,
	}
}

// =============================================================================
// RECORD DTOS
// =============================================================================

type EmployeeDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	HireDate string `json:"hire_date"`
}

type ContractDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Status     string  `json:"status"`
	Type       string  `json:"type"`
	BaseSalary string  `json:"base_salary"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
	UpdatedAt  string  `json:"updated_at"`
}

type AnnexDTO struct {
	ID          string  `json:"id"`
	ContractID  string  `json:"contract_id"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	NewSalary   string  `json:"new_salary"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
}

type MedicalLeaveDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	IsActive   bool    `json:"is_active"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}

type PermissionDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type SettlementDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	IssuedAt   string `json:"issued_at"`
}

// ActiveContractDTO is the resolver outcome for an employee.
type ActiveContractDTO struct {
	HasActive bool         `json:"has_active"`
	Contract  *ContractDTO `json:"contract,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreateEmployeeRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Status   string `json:"status,omitempty"`
	HireDate string `json:"hire_date"`
}

type CreateContractRequest struct {
	ID         string  `json:"id,omitempty"`
	Status     string  `json:"status,omitempty"`
	Type       string  `json:"type"`
	BaseSalary string  `json:"base_salary"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}

type ChangeContractStatusRequest struct {
	Status string `json:"status"`
}

type CreateAnnexRequest struct {
	ID          string  `json:"id,omitempty"`
	Status      string  `json:"status,omitempty"`
	Description string  `json:"description,omitempty"`
	NewSalary   string  `json:"new_salary"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
}

type CreatePermissionRequest struct {
	ID        string `json:"id,omitempty"`
	Status    string `json:"status,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type CreateMedicalLeaveRequest struct {
	ID        string  `json:"id,omitempty"`
	IsActive  bool    `json:"is_active"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
}

type CreateSettlementRequest struct {
	ID       string `json:"id,omitempty"`
	Status   string `json:"status"`
	IssuedAt string `json:"issued_at"`
}

type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e engine.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:       string(e.ID),
		Name:     e.Name,
		Status:   string(e.Status),
		HireDate: e.HireDate.String(),
	}
}

func toContractDTO(c engine.Contract) ContractDTO {
	dto := ContractDTO{
		ID:         string(c.ID),
		EmployeeID: string(c.EmployeeID),
		Status:     string(c.Status),
		Type:       string(c.Type),
		BaseSalary: c.BaseSalary.String(),
		StartDate:  c.StartDate.String(),
		UpdatedAt:  c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.EndDate != nil {
		s := c.EndDate.String()
		dto.EndDate = &s
	}
	return dto
}

func toAnnexDTO(a engine.Annex) AnnexDTO {
	dto := AnnexDTO{
		ID:          string(a.ID),
		ContractID:  string(a.ContractID),
		Status:      string(a.Status),
		Description: a.Description,
		NewSalary:   a.NewSalary.String(),
		StartDate:   a.StartDate.String(),
	}
	if a.EndDate != nil {
		s := a.EndDate.String()
		dto.EndDate = &s
	}
	return dto
}

func toMedicalLeaveDTO(l engine.MedicalLeave) MedicalLeaveDTO {
	dto := MedicalLeaveDTO{
		ID:         string(l.ID),
		EmployeeID: string(l.EmployeeID),
		IsActive:   l.IsActive,
		StartDate:  l.StartDate.String(),
	}
	if l.EndDate != nil {
		s := l.EndDate.String()
		dto.EndDate = &s
	}
	return dto
}

func toPermissionDTO(p engine.Permission) PermissionDTO {
	return PermissionDTO{
		ID:         string(p.ID),
		EmployeeID: string(p.EmployeeID),
		Status:     string(p.Status),
		StartDate:  p.StartDate.String(),
		EndDate:    p.EndDate.String(),
	}
}

func toSettlementDTO(s engine.Settlement) SettlementDTO {
	return SettlementDTO{
		ID:         string(s.ID),
		EmployeeID: string(s.EmployeeID),
		Status:     string(s.Status),
		IssuedAt:   s.IssuedAt.String(),
	}
}
