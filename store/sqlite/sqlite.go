/*
Package sqlite provides the SQLite-backed record repository.

PURPOSE:
  Implements engine.Repository (the read side consumed by the eligibility
  engine) plus the write operations used by the API layer. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:      identity + lifecycle status
  contracts:      status, type, dates, base salary, updated_at
  annexes:        amendments scoped to one contract
  medical_leaves: active flag + date range
  permissions:    approved/pending absence requests with date range
  settlements:    termination closure records

AT-MOST-ONE ACTIVE CONTRACT:
  The engine resolves "the active contract" at read time, but resolution
  alone cannot stop two racing writers from both storing an active row. The
  partial unique index idx_contracts_single_active is the storage-level half
  of the invariant: at most one stored contract per employee may carry
  status 'active'. Signed-but-expired ambiguity is still the resolver's job.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  behind the single writer.

USAGE:
  store, err := sqlite.New("./data/hr.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  eng := engine.New(store)

SEE ALSO:
  - engine/repository.go: interface definitions
  - engine/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/austral/eligibility-engine/engine"
)

// Store implements engine.Repository plus the write side used by the API.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		hire_date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		status TEXT NOT NULL,
		contract_type TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_employee_status
		ON contracts(employee_id, status);

	-- Storage-level half of the at-most-one-active invariant: a second
	-- stored 'active' row for the same employee fails the write instead of
	-- waiting for the resolver to paper over it.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_contracts_single_active
		ON contracts(employee_id) WHERE status = 'active';

	CREATE TABLE IF NOT EXISTS annexes (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL REFERENCES contracts(id),
		status TEXT NOT NULL,
		description TEXT,
		new_salary TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_annexes_contract
		ON annexes(contract_id);

	CREATE TABLE IF NOT EXISTS medical_leaves (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		is_active INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_medical_leaves_employee
		ON medical_leaves(employee_id, is_active);

	CREATE TABLE IF NOT EXISTS permissions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		status TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_permissions_employee_status
		ON permissions(employee_id, status);

	CREATE TABLE IF NOT EXISTS settlements (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		status TEXT NOT NULL,
		issued_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_settlements_employee
		ON settlements(employee_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset drops all rows. Used by demo scenario loading only.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"settlements", "permissions", "medical_leaves", "annexes", "contracts", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e engine.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, status, hire_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, status = excluded.status, hire_date = excluded.hire_date`,
		string(e.ID), e.Name, string(e.Status), e.HireDate.String())
	if err != nil {
		return fmt.Errorf("save employee: %w", err)
	}
	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id engine.EmployeeID) (*engine.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, status, hire_date FROM employees WHERE id = ?`, string(id))
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, hire_date FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var result []engine.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (*engine.Employee, error) {
	var e engine.Employee
	var id, status, hireDate string
	if err := r.Scan(&id, &e.Name, &status, &hireDate); err != nil {
		return nil, err
	}
	e.ID = engine.EmployeeID(id)
	e.Status = engine.EmployeeStatus(status)
	d, err := engine.ParseDate(hireDate)
	if err != nil {
		return nil, err
	}
	e.HireDate = d
	return &e, nil
}

// =============================================================================
// CONTRACTS
// =============================================================================

func (s *Store) SaveContract(ctx context.Context, c engine.Contract) error {
	var endDate any
	if c.EndDate != nil {
		endDate = c.EndDate.String()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, employee_id, status, contract_type, base_salary, start_date, end_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			contract_type = excluded.contract_type,
			base_salary = excluded.base_salary,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at`,
		string(c.ID), string(c.EmployeeID), string(c.Status), string(c.Type),
		c.BaseSalary.String(), c.StartDate.String(), endDate,
		c.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save contract: %w", err)
	}
	return nil
}

// UpdateContractStatus changes a contract's status and bumps updated_at.
func (s *Store) UpdateContractStatus(ctx context.Context, id engine.ContractID, status engine.ContractStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contracts SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(time.RFC3339Nano), string(id))
	if err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update contract status: contract %s not found", id)
	}
	return nil
}

func (s *Store) GetContract(ctx context.Context, id engine.ContractID) (*engine.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, status, contract_type, base_salary, start_date, end_date, updated_at
		FROM contracts WHERE id = ?`, string(id))
	c, err := scanContract(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

func (s *Store) ListContractsByStatus(ctx context.Context, employeeID engine.EmployeeID, statuses ...engine.ContractStatus) ([]engine.Contract, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(statuses))
	placeholders = placeholders[:len(placeholders)-1]

	args := []any{string(employeeID)}
	for _, st := range statuses {
		args = append(args, string(st))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, status, contract_type, base_salary, start_date, end_date, updated_at
		FROM contracts WHERE employee_id = ? AND status IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts by status: %w", err)
	}
	defer rows.Close()

	var result []engine.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (s *Store) ListContractsByEmployee(ctx context.Context, employeeID engine.EmployeeID) ([]engine.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, status, contract_type, base_salary, start_date, end_date, updated_at
		FROM contracts WHERE employee_id = ? ORDER BY updated_at DESC, start_date DESC`, string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var result []engine.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func scanContract(r rowScanner) (*engine.Contract, error) {
	var c engine.Contract
	var id, employeeID, status, ctype, salary, startDate, updatedAt string
	var endDate sql.NullString
	if err := r.Scan(&id, &employeeID, &status, &ctype, &salary, &startDate, &endDate, &updatedAt); err != nil {
		return nil, err
	}
	c.ID = engine.ContractID(id)
	c.EmployeeID = engine.EmployeeID(employeeID)
	c.Status = engine.ContractStatus(status)
	c.Type = engine.ContractType(ctype)

	sal, err := decimal.NewFromString(salary)
	if err != nil {
		return nil, fmt.Errorf("invalid base_salary %q: %w", salary, err)
	}
	c.BaseSalary = sal

	sd, err := engine.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	c.StartDate = sd

	if endDate.Valid {
		ed, err := engine.ParseDate(endDate.String)
		if err != nil {
			return nil, err
		}
		c.EndDate = &ed
	}

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	c.UpdatedAt = ts
	return &c, nil
}

// =============================================================================
// ANNEXES
// =============================================================================

func (s *Store) SaveAnnex(ctx context.Context, a engine.Annex) error {
	var endDate any
	if a.EndDate != nil {
		endDate = a.EndDate.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO annexes (id, contract_id, status, description, new_salary, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			description = excluded.description,
			new_salary = excluded.new_salary,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		string(a.ID), string(a.ContractID), string(a.Status), a.Description,
		a.NewSalary.String(), a.StartDate.String(), endDate)
	if err != nil {
		return fmt.Errorf("save annex: %w", err)
	}
	return nil
}

func (s *Store) ListAnnexesByContract(ctx context.Context, contractID engine.ContractID) ([]engine.Annex, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_id, status, description, new_salary, start_date, end_date
		FROM annexes WHERE contract_id = ? ORDER BY start_date`, string(contractID))
	if err != nil {
		return nil, fmt.Errorf("list annexes: %w", err)
	}
	defer rows.Close()

	var result []engine.Annex
	for rows.Next() {
		var a engine.Annex
		var id, contract, status, salary, startDate string
		var description sql.NullString
		var endDate sql.NullString
		if err := rows.Scan(&id, &contract, &status, &description, &salary, &startDate, &endDate); err != nil {
			return nil, fmt.Errorf("scan annex: %w", err)
		}
		a.ID = engine.AnnexID(id)
		a.ContractID = engine.ContractID(contract)
		a.Status = engine.AnnexStatus(status)
		a.Description = description.String

		sal, err := decimal.NewFromString(salary)
		if err != nil {
			return nil, fmt.Errorf("invalid new_salary %q: %w", salary, err)
		}
		a.NewSalary = sal

		sd, err := engine.ParseDate(startDate)
		if err != nil {
			return nil, err
		}
		a.StartDate = sd
		if endDate.Valid {
			ed, err := engine.ParseDate(endDate.String)
			if err != nil {
				return nil, err
			}
			a.EndDate = &ed
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// =============================================================================
// MEDICAL LEAVES
// =============================================================================

func (s *Store) SaveMedicalLeave(ctx context.Context, l engine.MedicalLeave) error {
	var endDate any
	if l.EndDate != nil {
		endDate = l.EndDate.String()
	}
	active := 0
	if l.IsActive {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medical_leaves (id, employee_id, is_active, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_active = excluded.is_active,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		string(l.ID), string(l.EmployeeID), active, l.StartDate.String(), endDate)
	if err != nil {
		return fmt.Errorf("save medical leave: %w", err)
	}
	return nil
}

func (s *Store) ListMedicalLeaves(ctx context.Context, employeeID engine.EmployeeID) ([]engine.MedicalLeave, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, is_active, start_date, end_date
		FROM medical_leaves WHERE employee_id = ?`, string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("list medical leaves: %w", err)
	}
	defer rows.Close()

	var result []engine.MedicalLeave
	for rows.Next() {
		var l engine.MedicalLeave
		var id, employee, startDate string
		var active int
		var endDate sql.NullString
		if err := rows.Scan(&id, &employee, &active, &startDate, &endDate); err != nil {
			return nil, fmt.Errorf("scan medical leave: %w", err)
		}
		l.ID = engine.MedicalLeaveID(id)
		l.EmployeeID = engine.EmployeeID(employee)
		l.IsActive = active != 0

		sd, err := engine.ParseDate(startDate)
		if err != nil {
			return nil, err
		}
		l.StartDate = sd
		if endDate.Valid {
			ed, err := engine.ParseDate(endDate.String)
			if err != nil {
				return nil, err
			}
			l.EndDate = &ed
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// =============================================================================
// PERMISSIONS
// =============================================================================

func (s *Store) SavePermission(ctx context.Context, p engine.Permission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permissions (id, employee_id, status, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		string(p.ID), string(p.EmployeeID), string(p.Status),
		p.StartDate.String(), p.EndDate.String())
	if err != nil {
		return fmt.Errorf("save permission: %w", err)
	}
	return nil
}

func (s *Store) ListPermissionsByStatus(ctx context.Context, employeeID engine.EmployeeID, status engine.PermissionStatus) ([]engine.Permission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, status, start_date, end_date
		FROM permissions WHERE employee_id = ? AND status = ? ORDER BY start_date`,
		string(employeeID), string(status))
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var result []engine.Permission
	for rows.Next() {
		var p engine.Permission
		var id, employee, st, startDate, endDate string
		if err := rows.Scan(&id, &employee, &st, &startDate, &endDate); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		p.ID = engine.PermissionID(id)
		p.EmployeeID = engine.EmployeeID(employee)
		p.Status = engine.PermissionStatus(st)

		sd, err := engine.ParseDate(startDate)
		if err != nil {
			return nil, err
		}
		ed, err := engine.ParseDate(endDate)
		if err != nil {
			return nil, err
		}
		p.StartDate, p.EndDate = sd, ed
		result = append(result, p)
	}
	return result, rows.Err()
}

// =============================================================================
// SETTLEMENTS
// =============================================================================

func (s *Store) SaveSettlement(ctx context.Context, st engine.Settlement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settlements (id, employee_id, status, issued_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			issued_at = excluded.issued_at`,
		string(st.ID), string(st.EmployeeID), string(st.Status), st.IssuedAt.String())
	if err != nil {
		return fmt.Errorf("save settlement: %w", err)
	}
	return nil
}

func (s *Store) ListSettlements(ctx context.Context, employeeID engine.EmployeeID) ([]engine.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, status, issued_at
		FROM settlements WHERE employee_id = ? ORDER BY issued_at DESC`, string(employeeID))
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()

	var result []engine.Settlement
	for rows.Next() {
		var st engine.Settlement
		var id, employee, status, issuedAt string
		if err := rows.Scan(&id, &employee, &status, &issuedAt); err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		st.ID = engine.SettlementID(id)
		st.EmployeeID = engine.EmployeeID(employee)
		st.Status = engine.SettlementStatus(status)

		d, err := engine.ParseDate(issuedAt)
		if err != nil {
			return nil, err
		}
		st.IssuedAt = d
		result = append(result, st)
	}
	return result, rows.Err()
}
