// Package store provides an in-memory Repository implementation for tests
// and demos.
package store

import (
	"context"
	"sync"

	"github.com/austral/eligibility-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	employees     map[engine.EmployeeID]engine.Employee
	contracts     map[engine.ContractID]engine.Contract
	annexes       map[engine.AnnexID]engine.Annex
	medicalLeaves map[engine.MedicalLeaveID]engine.MedicalLeave
	permissions   map[engine.PermissionID]engine.Permission
	settlements   map[engine.SettlementID]engine.Settlement
}

func NewMemory() *Memory {
	return &Memory{
		employees:     make(map[engine.EmployeeID]engine.Employee),
		contracts:     make(map[engine.ContractID]engine.Contract),
		annexes:       make(map[engine.AnnexID]engine.Annex),
		medicalLeaves: make(map[engine.MedicalLeaveID]engine.MedicalLeave),
		permissions:   make(map[engine.PermissionID]engine.Permission),
		settlements:   make(map[engine.SettlementID]engine.Settlement),
	}
}

// -----------------------------------------------------------------------------
// Writes (seeding; the engine itself never calls these)
// -----------------------------------------------------------------------------

func (m *Memory) PutEmployee(e engine.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

func (m *Memory) PutContract(c engine.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[c.ID] = c
}

func (m *Memory) PutAnnex(a engine.Annex) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.annexes[a.ID] = a
}

func (m *Memory) PutMedicalLeave(l engine.MedicalLeave) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.medicalLeaves[l.ID] = l
}

func (m *Memory) PutPermission(p engine.Permission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permissions[p.ID] = p
}

func (m *Memory) PutSettlement(s engine.Settlement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settlements[s.ID] = s
}

// -----------------------------------------------------------------------------
// engine.Repository
// -----------------------------------------------------------------------------

func (m *Memory) GetEmployee(_ context.Context, id engine.EmployeeID) (*engine.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.employees[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *Memory) GetContract(_ context.Context, id engine.ContractID) (*engine.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.contracts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *Memory) ListContractsByStatus(_ context.Context, employeeID engine.EmployeeID, statuses ...engine.ContractStatus) ([]engine.Contract, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.Contract
	for _, c := range m.contracts {
		if c.EmployeeID != employeeID {
			continue
		}
		for _, s := range statuses {
			if c.Status == s {
				result = append(result, c)
				break
			}
		}
	}
	return result, nil
}

func (m *Memory) ListAnnexesByContract(_ context.Context, contractID engine.ContractID) ([]engine.Annex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.Annex
	for _, a := range m.annexes {
		if a.ContractID == contractID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *Memory) ListMedicalLeaves(_ context.Context, employeeID engine.EmployeeID) ([]engine.MedicalLeave, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.MedicalLeave
	for _, l := range m.medicalLeaves {
		if l.EmployeeID == employeeID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *Memory) ListPermissionsByStatus(_ context.Context, employeeID engine.EmployeeID, status engine.PermissionStatus) ([]engine.Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.Permission
	for _, p := range m.permissions {
		if p.EmployeeID == employeeID && p.Status == status {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *Memory) ListSettlements(_ context.Context, employeeID engine.EmployeeID) ([]engine.Settlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []engine.Settlement
	for _, s := range m.settlements {
		if s.EmployeeID == employeeID {
			result = append(result, s)
		}
	}
	return result, nil
}
