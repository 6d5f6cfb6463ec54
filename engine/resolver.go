/*
resolver.go - Active contract resolution

PURPOSE:
  "The active contract" is not a stored field. Several rows can plausibly
  claim to be in force at once (corrected records, a signed contract that has
  not started, an active contract that silently expired), so the contract in
  force is resolved on demand:

    1. Candidates: contracts with status in {active, signed}.
    2. Order: updated_at descending, then start_date descending. The most
       recently touched row wins ties; among equally fresh rows, the most
       recently started one.
    3. First candidate that is actually in force today wins:
         active: in force unless expired (indefinite contracts never expire,
                 whatever their stored end date says)
         signed: in force once start_date has arrived, unless expired
    4. No passing candidate means no active contract.

  Recency ordering resolves ambiguity but can pick a surprising row when
  multiple edits raced; the at-most-one invariant is additionally guarded by
  a storage-level partial unique index (store/sqlite).
*/
package engine

import (
	"context"
	"fmt"
	"sort"
)

// ActiveContract is the outcome of resolution. Contract is nil when
// HasActive is false.
type ActiveContract struct {
	HasActive bool
	Contract  *Contract
}

// ResolveActiveContract returns the single contract the engine treats as
// currently in force for the employee, if any.
func (e *Engine) ResolveActiveContract(ctx context.Context, employeeID EmployeeID) (ActiveContract, error) {
	candidates, err := e.repo.ListContractsByStatus(ctx, employeeID, ContractActive, ContractSigned)
	if err != nil {
		return ActiveContract{}, fmt.Errorf("list resolvable contracts for %s: %w", employeeID, err)
	}
	if len(candidates) == 0 {
		return ActiveContract{}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].UpdatedAt.Equal(candidates[j].UpdatedAt) {
			return candidates[i].UpdatedAt.After(candidates[j].UpdatedAt)
		}
		return candidates[i].StartDate.After(candidates[j].StartDate)
	})

	today := e.clock.Today()
	for i := range candidates {
		if contractInForce(candidates[i], today) {
			c := candidates[i]
			return ActiveContract{HasActive: true, Contract: &c}, nil
		}
	}
	return ActiveContract{}, nil
}

// contractInForce decides whether a single resolvable candidate is in force
// today.
func contractInForce(c Contract, today Date) bool {
	switch c.Status {
	case ContractActive:
		return !c.Expired(today)
	case ContractSigned:
		return c.StartDate.BeforeOrEqual(today) && !c.Expired(today)
	default:
		return false
	}
}

// latestTerminatedContract returns the employee's most recent terminated
// contract under the same recency ordering the resolver uses, or nil.
func (e *Engine) latestTerminatedContract(ctx context.Context, employeeID EmployeeID) (*Contract, error) {
	terminated, err := e.repo.ListContractsByStatus(ctx, employeeID, ContractTerminated)
	if err != nil {
		return nil, fmt.Errorf("list terminated contracts for %s: %w", employeeID, err)
	}
	if len(terminated) == 0 {
		return nil, nil
	}
	sort.SliceStable(terminated, func(i, j int) bool {
		if !terminated[i].UpdatedAt.Equal(terminated[j].UpdatedAt) {
			return terminated[i].UpdatedAt.After(terminated[j].UpdatedAt)
		}
		return terminated[i].StartDate.After(terminated[j].StartDate)
	})
	return &terminated[0], nil
}
