package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austral/eligibility-engine/engine"
)

// =============================================================================
// ANNEX CREATION (employee entry point)
// =============================================================================

func TestCanCreateAnnex_SignedIndefiniteStartedYesterday_Allowed(t *testing.T) {
	// GIVEN: a signed indefinite contract that started yesterday
	// THEN:  it resolves as active and the annex is allowed

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractSigned, engine.ContractIndefinite, yesterday, nil))

	res, err := eng.CanCreateAnnex(ctx(), "emp-1", "")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCanCreateAnnex_NoActiveContract_Denied(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))

	res, err := eng.CanCreateAnnex(ctx(), "emp-1", "")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeEmployeeNoActiveContract, res.Code)
}

func TestCanCreateAnnex_ContractIDMismatch_Denied(t *testing.T) {
	// The supplied contract must be the resolved active contract.

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-active", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))
	repo.PutContract(contract("c-old", "emp-1", engine.ContractTerminated, engine.ContractIndefinite, today.AddDays(-700), nil))

	res, err := eng.CanCreateAnnex(ctx(), "emp-1", "c-old")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeContractNotFound, res.Code)
	assert.Equal(t, "c-active", res.Details["active_contract_id"])
}

func TestCanCreateAnnex_MatchingContractID_Allowed(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))

	res, err := eng.CanCreateAnnex(ctx(), "emp-1", "c-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCanCreateAnnex_ActiveMedicalLeave_Denied(t *testing.T) {
	// GIVEN: active contract AND active medical leave
	// THEN:  annex creation is denied (contrast with certificates, which
	//        stay available in the same state)

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))
	repo.PutMedicalLeave(activeLeave("ml-1", "emp-1"))

	res, err := eng.CanCreateAnnex(ctx(), "emp-1", "")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeEmployeeHasActiveMedicalLeave, res.Code)
}

// =============================================================================
// ANNEX CREATION (contract entry point)
// =============================================================================

func TestCanCreateAnnexForContract_AnnexEligibleStatuses(t *testing.T) {
	// The contract entry point accepts {active, issued, signed} and
	// rejects {draft, terminated, cancelled}.

	allowed := map[engine.ContractStatus]bool{
		engine.ContractActive:     true,
		engine.ContractIssued:     true,
		engine.ContractSigned:     true,
		engine.ContractDraft:      false,
		engine.ContractTerminated: false,
		engine.ContractCancelled:  false,
	}

	for status, want := range allowed {
		eng, repo := newTestEngine()
		repo.PutEmployee(activeEmployee("emp-1"))
		repo.PutContract(contract("c-1", "emp-1", status, engine.ContractIndefinite, yesterday, nil))

		res, err := eng.CanCreateAnnexForContract(ctx(), "c-1")
		require.NoError(t, err)
		assert.Equal(t, want, res.Allowed, "status %s", status)
		if !want {
			assert.Equal(t, engine.CodeContractInvalidStatus, res.Code, "status %s", status)
		}
	}
}

func TestCanCreateAnnexForContract_NotFound(t *testing.T) {
	eng, _ := newTestEngine()

	res, err := eng.CanCreateAnnexForContract(ctx(), "missing")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeContractNotFound, res.Code)
}

func TestCanCreateAnnexForContract_InactiveEmployee_Denied(t *testing.T) {
	eng, repo := newTestEngine()
	emp := activeEmployee("emp-1")
	emp.Status = engine.EmployeeResignation
	repo.PutEmployee(emp)
	repo.PutContract(contract("c-1", "emp-1", engine.ContractIssued, engine.ContractIndefinite, yesterday, nil))

	res, err := eng.CanCreateAnnexForContract(ctx(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeEmployeeNotActive, res.Code)
}

func TestCanCreateAnnexForContract_ActiveMedicalLeave_Denied(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractIssued, engine.ContractIndefinite, yesterday, nil))
	repo.PutMedicalLeave(activeLeave("ml-1", "emp-1"))

	res, err := eng.CanCreateAnnexForContract(ctx(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeEmployeeHasActiveMedicalLeave, res.Code)
}
