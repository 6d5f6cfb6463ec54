package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austral/eligibility-engine/engine"
)

// =============================================================================
// ACTIVE CONTRACT RESOLUTION
// =============================================================================

func TestResolver_NoContracts_NothingResolves(t *testing.T) {
	// GIVEN: an employee with zero contracts
	// WHEN:  resolving the active contract
	// THEN:  nothing is active

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	assert.False(t, active.HasActive)
	assert.Nil(t, active.Contract)
}

func TestResolver_SignedStartedYesterday_Resolves(t *testing.T) {
	// GIVEN: a signed indefinite contract that started yesterday
	// WHEN:  resolving
	// THEN:  the signed contract is the active contract

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractSigned, engine.ContractIndefinite, yesterday, nil))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	require.True(t, active.HasActive)
	assert.Equal(t, engine.ContractID("c-1"), active.Contract.ID)
}

func TestResolver_SignedNotYetStarted_DoesNotResolve(t *testing.T) {
	// GIVEN: a signed contract starting tomorrow
	// THEN:  it is not in force yet

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractSigned, engine.ContractFixedTerm, tomorrow, dptr(today.AddDays(90))))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	assert.False(t, active.HasActive)
}

func TestResolver_ExpiredActiveSkipped_SignedWins(t *testing.T) {
	// GIVEN: an active fixed-term contract that expired yesterday, and a
	//        signed contract that started yesterday. The stale active row
	//        was touched more recently.
	// WHEN:  resolving
	// THEN:  the expired candidate is skipped and the signed one wins,
	//        despite losing the recency ordering.

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contractAt("c-expired", "emp-1", engine.ContractActive, engine.ContractFixedTerm,
		today.AddDays(-200), dptr(yesterday),
		time.Date(2024, time.January, 9, 10, 0, 0, 0, time.UTC)))
	repo.PutContract(contractAt("c-signed", "emp-1", engine.ContractSigned, engine.ContractIndefinite,
		yesterday, nil,
		time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	require.True(t, active.HasActive)
	assert.Equal(t, engine.ContractID("c-signed"), active.Contract.ID)
}

func TestResolver_IndefiniteIgnoresStoredEndDate(t *testing.T) {
	// GIVEN: an indefinite contract whose stored end date is in the past
	//        (historically-dirty data)
	// THEN:  it still resolves as active

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite,
		today.AddDays(-400), dptr(today.AddDays(-100))))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	require.True(t, active.HasActive)
	assert.Equal(t, engine.ContractID("c-1"), active.Contract.ID)
}

func TestResolver_FixedTermWithPastEndDate_Excluded(t *testing.T) {
	// Same dates as the indefinite case, but fixed-term: excluded.

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractFixedTerm,
		today.AddDays(-400), dptr(today.AddDays(-100))))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	assert.False(t, active.HasActive)
}

func TestResolver_RecencyOrdering_MostRecentlyUpdatedWins(t *testing.T) {
	// GIVEN: two contracts that both qualify (corrected records)
	// THEN:  the most recently updated row wins

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contractAt("c-old", "emp-1", engine.ContractActive, engine.ContractIndefinite,
		today.AddDays(-300), nil,
		time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC)))
	repo.PutContract(contractAt("c-new", "emp-1", engine.ContractActive, engine.ContractIndefinite,
		today.AddDays(-300), nil,
		time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	require.True(t, active.HasActive)
	assert.Equal(t, engine.ContractID("c-new"), active.Contract.ID)
}

func TestResolver_RecencyTie_LaterStartDateWins(t *testing.T) {
	// GIVEN: two qualifying contracts touched at the same instant
	// THEN:  the one that started later wins the tie

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	touched := time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)
	repo.PutContract(contractAt("c-earlier", "emp-1", engine.ContractActive, engine.ContractIndefinite,
		today.AddDays(-300), nil, touched))
	repo.PutContract(contractAt("c-later", "emp-1", engine.ContractActive, engine.ContractIndefinite,
		today.AddDays(-100), nil, touched))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	require.True(t, active.HasActive)
	assert.Equal(t, engine.ContractID("c-later"), active.Contract.ID)
}

func TestResolver_DraftAndTerminatedNeverCandidates(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-draft", "emp-1", engine.ContractDraft, engine.ContractIndefinite, yesterday, nil))
	repo.PutContract(contract("c-term", "emp-1", engine.ContractTerminated, engine.ContractIndefinite, today.AddDays(-500), nil))

	active, err := eng.ResolveActiveContract(ctx(), "emp-1")
	require.NoError(t, err)
	assert.False(t, active.HasActive)
}
