package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eodozzy/real-estate-investment-manager/internal/model"
)

// SQLiteStore persists everything to a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so a report can read while an import writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			id                  TEXT PRIMARY KEY,
			address             TEXT NOT NULL,
			city                TEXT,
			state               TEXT,
			zip                 TEXT,
			latitude            REAL,
			longitude           REAL,
			status              TEXT NOT NULL,
			purchase_price      REAL,
			square_feet         REAL,
			loan_principal      REAL,
			loan_annual_rate    REAL,
			loan_term_years     INTEGER,
			monthly_rent        REAL,
			annual_expenses     REAL,
			land_pct            REAL,
			total_cash_invested REAL,
			created_at          INTEGER NOT NULL,
			updated_at          INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status)`,

		`CREATE TABLE IF NOT EXISTS rental_comps (
			id           TEXT PRIMARY KEY,
			property_id  TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			address      TEXT,
			monthly_rent REAL,
			bedrooms     INTEGER,
			bathrooms    REAL,
			square_feet  REAL,
			noted_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comps_property ON rental_comps(property_id)`,

		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id                TEXT PRIMARY KEY,
			property_id       TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			analysis_year     INTEGER NOT NULL,
			cash_flow         REAL,
			principal_paydown REAL,
			appreciation      REAL,
			tax_benefit       REAL,
			total_return      REAL,
			total_return_pct  REAL,
			cap_rate          REAL,
			cash_on_cash      REAL,
			computed_at       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_property ON analysis_snapshots(property_id, analysis_year, computed_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveProperty(p *model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.Exec(`INSERT INTO properties
		(id, address, city, state, zip, latitude, longitude, status,
		 purchase_price, square_feet, loan_principal, loan_annual_rate, loan_term_years,
		 monthly_rent, annual_expenses, land_pct, total_cash_invested, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		 address=excluded.address, city=excluded.city, state=excluded.state, zip=excluded.zip,
		 latitude=excluded.latitude, longitude=excluded.longitude, status=excluded.status,
		 purchase_price=excluded.purchase_price, square_feet=excluded.square_feet,
		 loan_principal=excluded.loan_principal, loan_annual_rate=excluded.loan_annual_rate,
		 loan_term_years=excluded.loan_term_years, monthly_rent=excluded.monthly_rent,
		 annual_expenses=excluded.annual_expenses, land_pct=excluded.land_pct,
		 total_cash_invested=excluded.total_cash_invested, updated_at=excluded.updated_at`,
		p.ID, p.Address, p.City, p.State, p.Zip, p.Latitude, p.Longitude, string(p.Status),
		p.PurchasePrice, p.SquareFeet, p.Loan.Principal, p.Loan.AnnualRate, p.Loan.TermYears,
		p.MonthlyRent, p.AnnualExpenses, p.LandPct, p.TotalCashInvested,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	return err
}

func (s *SQLiteStore) GetProperty(id string) (*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getProperty(id)
}

func (s *SQLiteStore) getProperty(id string) (*model.Property, error) {
	row := s.db.QueryRow(`SELECT id, address, city, state, zip, latitude, longitude, status,
		purchase_price, square_feet, loan_principal, loan_annual_rate, loan_term_years,
		monthly_rent, annual_expenses, land_pct, total_cash_invested, created_at, updated_at
		FROM properties WHERE id = ?`, id)
	return scanProperty(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*model.Property, error) {
	var p model.Property
	var status string
	var createdAt, updatedAt int64
	err := row.Scan(&p.ID, &p.Address, &p.City, &p.State, &p.Zip, &p.Latitude, &p.Longitude, &status,
		&p.PurchasePrice, &p.SquareFeet, &p.Loan.Principal, &p.Loan.AnnualRate, &p.Loan.TermYears,
		&p.MonthlyRent, &p.AnnualExpenses, &p.LandPct, &p.TotalCashInvested, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Status = model.PropertyStatus(status)
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

func (s *SQLiteStore) ListProperties(status model.PropertyStatus) ([]*model.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, address, city, state, zip, latitude, longitude, status,
		purchase_price, square_feet, loan_principal, loan_annual_rate, loan_term_years,
		monthly_rent, annual_expenses, land_pct, total_cash_invested, created_at, updated_at
		FROM properties`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []*model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

func (s *SQLiteStore) DeleteProperty(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) TransitionStatus(id string, next model.PropertyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getProperty(id)
	if err != nil {
		return err
	}
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, next)
	}
	_, err = s.db.Exec(`UPDATE properties SET status = ?, updated_at = ? WHERE id = ?`,
		string(next), time.Now().Unix(), id)
	return err
}

func (s *SQLiteStore) AddComp(c *model.RentalComp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.NotedAt.IsZero() {
		c.NotedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO rental_comps
		(id, property_id, address, monthly_rent, bedrooms, bathrooms, square_feet, noted_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		c.ID, c.PropertyID, c.Address, c.MonthlyRent, c.Bedrooms, c.Bathrooms, c.SquareFeet, c.NotedAt.Unix())
	return err
}

func (s *SQLiteStore) ListComps(propertyID string) ([]*model.RentalComp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, property_id, address, monthly_rent, bedrooms, bathrooms, square_feet, noted_at
		FROM rental_comps WHERE property_id = ? ORDER BY noted_at`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comps []*model.RentalComp
	for rows.Next() {
		var c model.RentalComp
		var notedAt int64
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.Address, &c.MonthlyRent,
			&c.Bedrooms, &c.Bathrooms, &c.SquareFeet, &notedAt); err != nil {
			return nil, err
		}
		c.NotedAt = time.Unix(notedAt, 0)
		comps = append(comps, &c)
	}
	return comps, rows.Err()
}

func (s *SQLiteStore) RecordAnalysis(snap *model.AnalysisSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.ComputedAt.IsZero() {
		snap.ComputedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO analysis_snapshots
		(id, property_id, analysis_year, cash_flow, principal_paydown, appreciation,
		 tax_benefit, total_return, total_return_pct, cap_rate, cash_on_cash, computed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.ID, snap.PropertyID, snap.AnalysisYear, snap.CashFlow, snap.PrincipalPaydown,
		snap.Appreciation, snap.TaxBenefit, snap.TotalReturn, snap.TotalReturnPct,
		snap.CapRate, snap.CashOnCash, snap.ComputedAt.Unix())
	return err
}

func (s *SQLiteStore) LatestAnalysis(propertyID string, year int) (*model.AnalysisSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT id, property_id, analysis_year, cash_flow, principal_paydown,
		appreciation, tax_benefit, total_return, total_return_pct, cap_rate, cash_on_cash, computed_at
		FROM analysis_snapshots WHERE property_id = ? AND analysis_year = ?
		ORDER BY computed_at DESC LIMIT 1`, propertyID, year)

	var snap model.AnalysisSnapshot
	var computedAt int64
	err := row.Scan(&snap.ID, &snap.PropertyID, &snap.AnalysisYear, &snap.CashFlow,
		&snap.PrincipalPaydown, &snap.Appreciation, &snap.TaxBenefit, &snap.TotalReturn,
		&snap.TotalReturnPct, &snap.CapRate, &snap.CashOnCash, &computedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	snap.ComputedAt = time.Unix(computedAt, 0)
	return &snap, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
