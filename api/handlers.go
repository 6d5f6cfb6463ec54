/*
handlers.go - HTTP handlers for the eligibility service

PURPOSE:
  Exposes the eligibility engine and the record store via REST. Every write
  endpoint runs the corresponding gate first; a denial stops the request
  with a 400 and the engine's code/message/details, an allowed result
  proceeds to the store write.

ENDPOINTS:
  Employees:
    GET  /api/employees                         List employees
    POST /api/employees                         Create employee
    GET  /api/employees/{id}                    Get employee
    GET  /api/employees/{id}/active-contract    Resolver outcome
    GET  /api/employees/{id}/checks/{operation} Preflight a gate
    GET  /api/employees/{id}/contracts          Contract history
    POST /api/employees/{id}/contracts          Create contract (gated)
    POST /api/employees/{id}/permissions        Create permission (gated)
    POST /api/employees/{id}/medical-leaves     Record medical leave
    POST /api/employees/{id}/settlements        Record settlement

  Contracts:
    GET  /api/contracts/{id}
    POST /api/contracts/{id}/terminate          Gated termination
    POST /api/contracts/{id}/status             Gated status change
    GET  /api/contracts/{id}/annexes
    POST /api/contracts/{id}/annexes            Create annex (gated)

  Scenarios:
    GET  /api/scenarios                         List demo scenarios
    POST /api/scenarios/load                    Load a demo scenario

CHECK-THEN-WRITE RACES:
  Gate and write are separate, non-transactional steps. Writes for the same
  employee are serialized behind a per-employee lock so two concurrent
  creates cannot both observe "no active contract"; the sqlite partial
  unique index backstops anything that slips past.
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/austral/eligibility-engine/engine"
	"github.com/austral/eligibility-engine/store/sqlite"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *engine.Engine

	log logrus.FieldLogger

	mu    sync.Mutex
	locks map[engine.EmployeeID]*sync.Mutex

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a handler over the given store and engine.
func NewHandler(store *sqlite.Store, eng *engine.Engine, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		Store:  store,
		Engine: eng,
		log:    log,
		locks:  make(map[engine.EmployeeID]*sync.Mutex),
	}
}

// lockEmployee serializes check-then-write sequences per employee.
func (h *Handler) lockEmployee(id engine.EmployeeID) func() {
	h.mu.Lock()
	l, ok := h.locks[id]
	if !ok {
		l = &sync.Mutex{}
		h.locks[id] = l
	}
	h.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hireDate, err := engine.ParseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = string(engine.EmployeeActive)
	}

	emp := engine.Employee{
		ID:       engine.EmployeeID(req.ID),
		Name:     req.Name,
		Status:   engine.EmployeeStatus(req.Status),
		HireDate: hireDate,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetActiveContract exposes the resolver outcome for an employee.
func (h *Handler) GetActiveContract(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	active, err := h.Engine.ResolveActiveContract(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve active contract", err)
		return
	}
	dto := ActiveContractDTO{HasActive: active.HasActive}
	if active.Contract != nil {
		c := toContractDTO(*active.Contract)
		dto.Contract = &c
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// PREFLIGHT CHECKS
// =============================================================================

// CheckOperation runs a gate without writing anything and returns the full
// ValidationResult, allowed or denied. Operations that gate on a specific
// contract take it via the contract_id query parameter.
func (h *Handler) CheckOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))
	operation := chi.URLParam(r, "operation")
	contractID := engine.ContractID(r.URL.Query().Get("contract_id"))

	var (
		result engine.ValidationResult
		err    error
	)
	switch operation {
	case "create-contract":
		result, err = h.Engine.CanCreateContract(ctx, employeeID)
	case "create-contract-after-termination":
		result, err = h.Engine.CanCreateContractAfterTermination(ctx, employeeID)
	case "modify-contract":
		result, err = h.Engine.CanModifyContract(ctx, employeeID, contractID)
	case "create-annex":
		result, err = h.Engine.CanCreateAnnex(ctx, employeeID, contractID)
	case "create-loan":
		result, err = h.Engine.CanCreateLoan(ctx, employeeID)
	case "create-permission":
		result, err = h.Engine.CanCreatePermission(ctx, employeeID)
	case "create-disciplinary-action":
		result, err = h.Engine.CanCreateDisciplinaryAction(ctx, employeeID)
	case "create-advance":
		result, err = h.Engine.CanCreateAdvance(ctx, employeeID)
	case "create-overtime-pact":
		result, err = h.Engine.CanCreateOvertimePact(ctx, employeeID)
	case "create-vacation":
		result, err = h.Engine.CanCreateVacation(ctx, employeeID)
	case "generate-payroll-slip":
		result, err = h.Engine.CanGeneratePayrollSlip(ctx, employeeID)
	case "generate-certificate":
		result, err = h.Engine.CanGenerateCertificate(ctx, employeeID)
	case "generate-document":
		result, err = h.Engine.CanGenerateDocument(ctx, employeeID)
	default:
		writeError(w, http.StatusNotFound, "Unknown operation: "+operation, nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Eligibility check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toValidationResultDTO(result))
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	contracts, err := h.Store.ListContractsByEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}
	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id := engine.ContractID(chi.URLParam(r, "id"))

	contract, err := h.Store.GetContract(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contract", err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(*contract))
}

// CreateContract creates a contract for an employee. The gate used is
// CanCreateContractAfterTermination: it subsumes plain creation (when no
// terminated contract exists it checks exactly what CanCreateContract
// checks) and additionally demands an approved settlement after a
// termination.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	var endDate *engine.Date
	if req.EndDate != nil {
		d, err := engine.ParseDate(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
		endDate = &d
	}
	salary, err := decimal.NewFromString(req.BaseSalary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base_salary", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = string(engine.ContractDraft)
	}

	unlock := h.lockEmployee(employeeID)
	defer unlock()

	result, err := h.Engine.CanCreateContractAfterTermination(ctx, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Eligibility check failed", err)
		return
	}
	if !result.Allowed {
		writeDenial(w, result)
		return
	}

	contract := engine.Contract{
		ID:         engine.ContractID(req.ID),
		EmployeeID: employeeID,
		Status:     engine.ContractStatus(req.Status),
		Type:       engine.ContractType(req.Type),
		BaseSalary: salary,
		StartDate:  startDate,
		EndDate:    endDate,
	}
	if err := h.Store.SaveContract(ctx, contract); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create contract", err)
		return
	}

	saved, err := h.Store.GetContract(ctx, contract.ID)
	if err != nil || saved == nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractDTO(*saved))
}

// TerminateContract runs the termination gate then moves the contract to
// terminated.
func (h *Handler) TerminateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contractID := engine.ContractID(chi.URLParam(r, "id"))

	contract, err := h.Store.GetContract(ctx, contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contract", err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}

	unlock := h.lockEmployee(contract.EmployeeID)
	defer unlock()

	result, err := h.Engine.CanTerminateContract(ctx, contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Eligibility check failed", err)
		return
	}
	if !result.Allowed {
		writeDenial(w, result)
		return
	}

	if err := h.Store.UpdateContractStatus(ctx, contractID, engine.ContractTerminated); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to terminate contract", err)
		return
	}

	saved, err := h.Store.GetContract(ctx, contractID)
	if err != nil || saved == nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back contract", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(*saved))
}

// ChangeContractStatus runs the transition gate then applies the change.
func (h *Handler) ChangeContractStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contractID := engine.ContractID(chi.URLParam(r, "id"))

	var req ChangeContractStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	newStatus := engine.ContractStatus(req.Status)

	contract, err := h.Store.GetContract(ctx, contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contract", err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}

	unlock := h.lockEmployee(contract.EmployeeID)
	defer unlock()

	result, err := h.Engine.CanChangeContractStatus(ctx, contractID, newStatus)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Eligibility check failed", err)
		return
	}
	if !result.Allowed {
		writeDenial(w, result)
		return
	}

	if err := h.Store.UpdateContractStatus(ctx, contractID, newStatus); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change contract status", err)
		return
	}

	saved, err := h.Store.GetContract(ctx, contractID)
	if err != nil || saved == nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back contract", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(*saved))
}

// =============================================================================
// ANNEX HANDLERS
// =============================================================================

func (h *Handler) ListAnnexes(w http.ResponseWriter, r *http.Request) {
	contractID := engine.ContractID(chi.URLParam(r, "id"))

	annexes, err := h.Store.ListAnnexesByContract(r.Context(), contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list annexes", err)
		return
	}
	dtos := make([]AnnexDTO, len(annexes))
	for i, a := range annexes {
		dtos[i] = toAnnexDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAnnex creates an amendment against a contract, gated by
// CanCreateAnnexForContract.
func (h *Handler) CreateAnnex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contractID := engine.ContractID(chi.URLParam(r, "id"))

	var req CreateAnnexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	var endDate *engine.Date
	if req.EndDate != nil {
		d, err := engine.ParseDate(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
		endDate = &d
	}
	salary, err := decimal.NewFromString(req.NewSalary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid new_salary", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = string(engine.AnnexDraft)
	}

	contract, err := h.Store.GetContract(ctx, contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contract", err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}

	unlock := h.lockEmployee(contract.EmployeeID)
	defer unlock()

	result, err := h.Engine.CanCreateAnnexForContract(ctx, contractID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Eligibility check failed", err)
		return
	}
	if !result.Allowed {
		writeDenial(w, result)
		return
	}

	annex := engine.Annex{
		ID:          engine.AnnexID(req.ID),
		ContractID:  contractID,
		Status:      engine.AnnexStatus(req.Status),
		Description: req.Description,
		NewSalary:   salary,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if err := h.Store.SaveAnnex(ctx, annex); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create annex", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAnnexDTO(annex))
}

// =============================================================================
// PERMISSION / MEDICAL LEAVE / SETTLEMENT HANDLERS
// =============================================================================

// CreatePermission creates a permission request, gated by
// CanCreatePermission.
func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	var req CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	endDate, err := engine.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = string(engine.PermissionPending)
	}

	unlock := h.lockEmployee(employeeID)
	defer unlock()

	result, err := h.Engine.CanCreatePermission(ctx, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Eligibility check failed", err)
		return
	}
	if !result.Allowed {
		writeDenial(w, result)
		return
	}

	perm := engine.Permission{
		ID:         engine.PermissionID(req.ID),
		EmployeeID: employeeID,
		Status:     engine.PermissionStatus(req.Status),
		StartDate:  startDate,
		EndDate:    endDate,
	}
	if err := h.Store.SavePermission(ctx, perm); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create permission", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPermissionDTO(perm))
}

// CreateMedicalLeave records a medical leave. HR action, not gated: leave
// registration must work whatever state the employee is in.
func (h *Handler) CreateMedicalLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	var req CreateMedicalLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := engine.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	var endDate *engine.Date
	if req.EndDate != nil {
		d, err := engine.ParseDate(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
		endDate = &d
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	leave := engine.MedicalLeave{
		ID:         engine.MedicalLeaveID(req.ID),
		EmployeeID: employeeID,
		IsActive:   req.IsActive,
		StartDate:  startDate,
		EndDate:    endDate,
	}
	if err := h.Store.SaveMedicalLeave(ctx, leave); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record medical leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMedicalLeaveDTO(leave))
}

// CreateSettlement records a settlement ("finiquito"). Settlements come
// from the external settlement module; the engine only consumes them.
func (h *Handler) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := engine.EmployeeID(chi.URLParam(r, "id"))

	var req CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	issuedAt, err := engine.ParseDate(req.IssuedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid issued_at format (use YYYY-MM-DD)", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	settlement := engine.Settlement{
		ID:         engine.SettlementID(req.ID),
		EmployeeID: employeeID,
		Status:     engine.SettlementStatus(req.Status),
		IssuedAt:   issuedAt,
	}
	if err := h.Store.SaveSettlement(ctx, settlement); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record settlement", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettlementDTO(settlement))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDenial turns an engine denial into the boundary 400 contract.
func writeDenial(w http.ResponseWriter, result engine.ValidationResult) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   result.Message,
		Code:    string(result.Code),
		Details: result.Details,
	})
}
