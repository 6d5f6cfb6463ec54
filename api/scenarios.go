/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Loadable fixtures that put the store into recognizable states so the API
  can be explored without hand-crafting records. Each scenario resets the
  database and seeds one employee in a state that makes a specific gate
  interesting (no contract, expired contract, medical leave, overlapping
  permission, missing settlement).

  Dates are seeded relative to the engine's clock so scenarios stay valid
  whenever they are loaded.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/austral/eligibility-engine/engine"
	"github.com/austral/eligibility-engine/store/sqlite"
)

type scenario struct {
	ID          string
	Name        string
	Description string
	Load        func(ctx context.Context, s *sqlite.Store, today engine.Date) error
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var scenarios = []scenario{
	{
		ID:          "fresh-hire",
		Name:        "Fresh hire",
		Description: "Active employee with zero contracts; contract creation is allowed.",
		Load: func(ctx context.Context, s *sqlite.Store, today engine.Date) error {
			return s.SaveEmployee(ctx, demoEmployee(today))
		},
	},
	{
		ID:          "signed-indefinite",
		Name:        "Signed indefinite contract",
		Description: "Signed indefinite contract that started yesterday; resolves as active, annexes allowed.",
		Load: func(ctx context.Context, s *sqlite.Store, today engine.Date) error {
			if err := s.SaveEmployee(ctx, demoEmployee(today)); err != nil {
				return err
			}
			return s.SaveContract(ctx, engine.Contract{
				ID:         "c-1",
				EmployeeID: "emp-1",
				Status:     engine.ContractSigned,
				Type:       engine.ContractIndefinite,
				BaseSalary: decimal.NewFromInt(850000),
				StartDate:  today.AddDays(-1),
			})
		},
	},
	{
		ID:          "expired-fixed-term",
		Name:        "Expired fixed-term contract",
		Description: "Active fixed-term contract that ended yesterday; nothing resolves as active.",
		Load: func(ctx context.Context, s *sqlite.Store, today engine.Date) error {
			if err := s.SaveEmployee(ctx, demoEmployee(today)); err != nil {
				return err
			}
			end := today.AddDays(-1)
			return s.SaveContract(ctx, engine.Contract{
				ID:         "c-2",
				EmployeeID: "emp-1",
				Status:     engine.ContractActive,
				Type:       engine.ContractFixedTerm,
				BaseSalary: decimal.NewFromInt(620000),
				StartDate:  today.AddDays(-200),
				EndDate:    &end,
			})
		},
	},
	{
		ID:          "medical-leave",
		Name:        "Active medical leave",
		Description: "Active indefinite contract plus active medical leave; certificates allowed, annexes denied.",
		Load: func(ctx context.Context, s *sqlite.Store, today engine.Date) error {
			if err := s.SaveEmployee(ctx, demoEmployee(today)); err != nil {
				return err
			}
			if err := s.SaveContract(ctx, engine.Contract{
				ID:         "c-3",
				EmployeeID: "emp-1",
				Status:     engine.ContractActive,
				Type:       engine.ContractIndefinite,
				BaseSalary: decimal.NewFromInt(910000),
				StartDate:  today.AddDays(-400),
			}); err != nil {
				return err
			}
			return s.SaveMedicalLeave(ctx, engine.MedicalLeave{
				ID:         "ml-1",
				EmployeeID: "emp-1",
				IsActive:   true,
				StartDate:  today.AddDays(-5),
			})
		},
	},
	{
		ID:          "permission-overlap",
		Name:        "Permission covering today",
		Description: "Approved permission whose range contains today; new permissions are denied.",
		Load: func(ctx context.Context, s *sqlite.Store, today engine.Date) error {
			if err := s.SaveEmployee(ctx, demoEmployee(today)); err != nil {
				return err
			}
			if err := s.SaveContract(ctx, engine.Contract{
				ID:         "c-4",
				EmployeeID: "emp-1",
				Status:     engine.ContractActive,
				Type:       engine.ContractIndefinite,
				BaseSalary: decimal.NewFromInt(780000),
				StartDate:  today.AddDays(-300),
			}); err != nil {
				return err
			}
			if err := s.SavePermission(ctx, engine.Permission{
				ID:         "p-1",
				EmployeeID: "emp-1",
				Status:     engine.PermissionApproved,
				StartDate:  today.AddDays(-20),
				EndDate:    today.AddDays(-15),
			}); err != nil {
				return err
			}
			return s.SavePermission(ctx, engine.Permission{
				ID:         "p-2",
				EmployeeID: "emp-1",
				Status:     engine.PermissionApproved,
				StartDate:  today.AddDays(-2),
				EndDate:    today.AddDays(5),
			})
		},
	},
	{
		ID:          "pending-settlement",
		Name:        "Termination without settlement",
		Description: "Most recent contract terminated, settlement still pending; re-hiring is blocked.",
		Load: func(ctx context.Context, s *sqlite.Store, today engine.Date) error {
			if err := s.SaveEmployee(ctx, demoEmployee(today)); err != nil {
				return err
			}
			end := today.AddDays(-30)
			if err := s.SaveContract(ctx, engine.Contract{
				ID:         "c-5",
				EmployeeID: "emp-1",
				Status:     engine.ContractTerminated,
				Type:       engine.ContractFixedTerm,
				BaseSalary: decimal.NewFromInt(540000),
				StartDate:  today.AddDays(-365),
				EndDate:    &end,
			}); err != nil {
				return err
			}
			return s.SaveSettlement(ctx, engine.Settlement{
				ID:         "st-1",
				EmployeeID: "emp-1",
				Status:     engine.SettlementPending,
				IssuedAt:   today.AddDays(-25),
			})
		},
	},
}

func demoEmployee(today engine.Date) engine.Employee {
	return engine.Employee{
		ID:       "emp-1",
		Name:     "Valentina Rojas",
		Status:   engine.EmployeeActive,
		HireDate: today.AddDays(-500),
	}
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the most recently loaded scenario.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": h.currentScenario})
}

// LoadScenario resets the database and seeds the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, s := range scenarios {
		if s.ID != req.ID {
			continue
		}
		if err := h.Store.Reset(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
			return
		}
		if err := s.Load(ctx, h.Store, h.Engine.Today()); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
			return
		}
		h.currentScenario = s.ID
		h.log.WithField("scenario", s.ID).Info("scenario loaded")
		writeJSON(w, http.StatusOK, map[string]string{"loaded": s.ID})
		return
	}
	writeError(w, http.StatusNotFound, "Unknown scenario: "+req.ID, nil)
}
