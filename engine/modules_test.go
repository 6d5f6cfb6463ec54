package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austral/eligibility-engine/engine"
)

// =============================================================================
// DEPENDENT-MODULE GATE
// =============================================================================

func TestCanOperateModule_NoActiveContract_DeniedWithModuleName(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))

	res, err := eng.CanOperateModule(ctx(), "emp-1", engine.ModuleAdvances)
	require.NoError(t, err)
	assert.Equal(t, engine.CodeEmployeeNoActiveContract, res.Code)
	assert.Contains(t, res.Message, "advances")
	assert.Equal(t, "advances", res.Details["module"])
}

func TestCanOperateModule_ActiveContract_Allowed(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))

	for _, check := range []func() (engine.ValidationResult, error){
		func() (engine.ValidationResult, error) { return eng.CanCreateDisciplinaryAction(ctx(), "emp-1") },
		func() (engine.ValidationResult, error) { return eng.CanCreateAdvance(ctx(), "emp-1") },
		func() (engine.ValidationResult, error) { return eng.CanCreateOvertimePact(ctx(), "emp-1") },
		func() (engine.ValidationResult, error) { return eng.CanCreateVacation(ctx(), "emp-1") },
		func() (engine.ValidationResult, error) { return eng.CanGeneratePayrollSlip(ctx(), "emp-1") },
	} {
		res, err := check()
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
}

// =============================================================================
// LOANS
// =============================================================================

func TestCanCreateLoan_FixedTermContract_Denied(t *testing.T) {
	// GIVEN: an active fixed-term contract (the plain module gate would
	//        pass)
	// THEN:  the loan specialization denies on contract type

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractFixedTerm,
		yesterday, dptr(today.AddDays(90))))

	gate, err := eng.CanOperateModule(ctx(), "emp-1", engine.ModuleLoans)
	require.NoError(t, err)
	assert.True(t, gate.Allowed, "the bare gate passes")

	res, err := eng.CanCreateLoan(ctx(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeLoanRequiresIndefinido, res.Code)
	assert.Equal(t, "fixed_term", res.Details["type"])
}

func TestCanCreateLoan_ExpiredFixedTerm_DeniedNoActiveContract(t *testing.T) {
	// An active fixed-term contract that expired yesterday does not
	// resolve, so the denial is the gate's, not the type rule's.

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractFixedTerm,
		today.AddDays(-200), dptr(yesterday)))

	res, err := eng.CanCreateLoan(ctx(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeEmployeeNoActiveContract, res.Code)
}

func TestCanCreateLoan_IndefiniteContract_Allowed(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))

	res, err := eng.CanCreateLoan(ctx(), "emp-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

// =============================================================================
// PERMISSIONS
// =============================================================================

func TestCanCreatePermission_PastPermissionOnly_Allowed(t *testing.T) {
	// GIVEN: an approved permission that ended before today
	// THEN:  no overlap with today, creation allowed

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))
	repo.PutPermission(approvedPermission("p-1", "emp-1", today.AddDays(-9), today.AddDays(-5)))

	res, err := eng.CanCreatePermission(ctx(), "emp-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCanCreatePermission_PermissionCoveringToday_Denied(t *testing.T) {
	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))
	repo.PutPermission(approvedPermission("p-1", "emp-1", today.AddDays(-9), today.AddDays(-5)))
	repo.PutPermission(approvedPermission("p-2", "emp-1", today.AddDays(-2), today.AddDays(5)))

	res, err := eng.CanCreatePermission(ctx(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, engine.CodePermissionAlreadyActive, res.Code)
	assert.Equal(t, "p-2", res.Details["permission_id"])
}

func TestCanCreatePermission_PendingPermissionCoveringToday_Ignored(t *testing.T) {
	// Only APPROVED permissions count for the overlap check.

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))
	repo.PutPermission(engine.Permission{
		ID: "p-1", EmployeeID: "emp-1", Status: engine.PermissionPending,
		StartDate: today.AddDays(-1), EndDate: today.AddDays(3),
	})

	res, err := eng.CanCreatePermission(ctx(), "emp-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCanCreatePermission_BoundaryDays_Inclusive(t *testing.T) {
	// A permission ending exactly today still covers today.

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))
	repo.PutPermission(approvedPermission("p-1", "emp-1", today.AddDays(-4), today))

	res, err := eng.CanCreatePermission(ctx(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, engine.CodePermissionAlreadyActive, res.Code)
}

// =============================================================================
// CERTIFICATES AND DOCUMENTS
// =============================================================================

func TestCanGenerateCertificate_DuringMedicalLeave_Allowed(t *testing.T) {
	// GIVEN: active contract AND active medical leave
	// THEN:  certificates stay obtainable while annexes are denied in the
	//        identical state

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))
	repo.PutMedicalLeave(activeLeave("ml-1", "emp-1"))

	cert, err := eng.CanGenerateCertificate(ctx(), "emp-1")
	require.NoError(t, err)
	assert.True(t, cert.Allowed)

	annex, err := eng.CanCreateAnnex(ctx(), "emp-1", "")
	require.NoError(t, err)
	assert.Equal(t, engine.CodeEmployeeHasActiveMedicalLeave, annex.Code)
}

func TestCanGenerateDocument_NoContractRequired(t *testing.T) {
	// The document gate only needs an active employee.

	eng, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))

	res, err := eng.CanGenerateDocument(ctx(), "emp-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

// =============================================================================
// FAILURE POLICY
// =============================================================================

func TestFailClosed_MedicalLeaveReadFailure_Propagates(t *testing.T) {
	// GIVEN: the default fail-closed engine and a failing leave read
	// THEN:  the annex gate surfaces the error instead of granting

	_, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))

	faulty := &faultyRepo{Repository: repo, failLeaves: true}
	eng := engine.New(faulty, engine.WithClock(engine.FixedClock{Day: today}))

	_, err := eng.CanCreateAnnex(ctx(), "emp-1", "")
	assert.Error(t, err)
}

func TestFailOpen_MedicalLeaveReadFailure_TreatedAsNoLeave(t *testing.T) {
	_, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))

	faulty := &faultyRepo{Repository: repo, failLeaves: true}
	eng := engine.New(faulty,
		engine.WithClock(engine.FixedClock{Day: today}),
		engine.WithFailMode(engine.FailOpen),
	)

	res, err := eng.CanCreateAnnex(ctx(), "emp-1", "")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestFailClosed_PermissionReadFailure_Propagates(t *testing.T) {
	_, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))

	faulty := &faultyRepo{Repository: repo, failPermissions: true}
	eng := engine.New(faulty, engine.WithClock(engine.FixedClock{Day: today}))

	_, err := eng.CanCreatePermission(ctx(), "emp-1")
	assert.Error(t, err)
}

func TestFailOpen_PermissionReadFailure_TreatedAsNoOverlap(t *testing.T) {
	_, repo := newTestEngine()
	repo.PutEmployee(activeEmployee("emp-1"))
	repo.PutContract(contract("c-1", "emp-1", engine.ContractActive, engine.ContractIndefinite, yesterday, nil))

	faulty := &faultyRepo{Repository: repo, failPermissions: true}
	eng := engine.New(faulty,
		engine.WithClock(engine.FixedClock{Day: today}),
		engine.WithFailMode(engine.FailOpen),
	)

	res, err := eng.CanCreatePermission(ctx(), "emp-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
