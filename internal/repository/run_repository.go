package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

// RunRepository define la interfaz del histórico de corridas del plan
type RunRepository interface {
	// SaveRun persiste el encabezado de la corrida y sus compras sugeridas
	// en una transacción. Completa run.ID y run.CreatedAt.
	SaveRun(ctx context.Context, run *models.PlanRun, orders []models.RecommendedOrder) error

	GetRun(ctx context.Context, id int64) (*models.PlanRun, error)
	GetRunOrders(ctx context.Context, id int64) ([]models.RecommendedOrder, error)
	ListRuns(ctx context.Context, limit int) ([]*models.PlanRun, error)
}

// runRepository implementa RunRepository
type runRepository struct {
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

// NewRunRepository crea una nueva instancia del repository
func NewRunRepository(db *sql.DB) (RunRepository, error) {
	repo := &runRepository{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}

	if err := repo.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return repo, nil
}

// prepareStatements prepara todas las consultas SQL para mejor rendimiento
func (r *runRepository) prepareStatements() error {
	statements := map[string]string{
		"get_run": `
			SELECT id, closing_date, year_week, clusters, materials, weeks,
				   adjustments, total_orders, created_at
			FROM plan_runs
			WHERE id = $1
		`,
		"list_runs": `
			SELECT id, closing_date, year_week, clusters, materials, weeks,
				   adjustments, total_orders, created_at
			FROM plan_runs
			ORDER BY created_at DESC
			LIMIT $1
		`,
		"get_run_orders": `
			SELECT material, description, um, date, year_week, quantity,
				   supplier_currency, supplier_price, supplier_notes, notes,
				   status, registration, supplier, supplier_name,
				   supplier_payment_term
			FROM plan_run_orders
			WHERE run_id = $1
			ORDER BY material, year_week
		`,
	}

	for name, query := range statements {
		stmt, err := r.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
		r.stmts[name] = stmt
	}

	return nil
}

// SaveRun inserta la corrida y sus compras sugeridas en una transacción
func (r *runRepository) SaveRun(ctx context.Context, run *models.PlanRun, orders []models.RecommendedOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO plan_runs
		(closing_date, year_week, clusters, materials, weeks, adjustments, total_orders)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		run.ClosingDate, int(run.YearWeek), run.Clusters, run.Materials,
		run.Weeks, run.Adjustments, run.TotalOrders,
	).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plan_run_orders
		(run_id, material, description, um, date, year_week, quantity,
		 supplier_currency, supplier_price, supplier_notes, notes, status,
		 registration, supplier, supplier_name, supplier_payment_term)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare order insert statement: %w", err)
	}
	defer stmt.Close()

	for i := range orders {
		o := &orders[i]
		_, err := stmt.ExecContext(ctx,
			run.ID, o.Material, o.Description, o.Unit, o.Date, int(o.YearWeek),
			o.Quantity, o.SupplierCurrency, nullDecimal(o.SupplierPrice),
			o.SupplierNotes, o.Notes, o.Status, o.Registration, o.Supplier,
			o.SupplierName, o.SupplierPaymentTerm,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", o.Material, err)
		}
	}

	return tx.Commit()
}

// GetRun obtiene el encabezado de una corrida
func (r *runRepository) GetRun(ctx context.Context, id int64) (*models.PlanRun, error) {
	var run models.PlanRun
	var yearWeek int
	err := r.stmts["get_run"].QueryRowContext(ctx, id).Scan(
		&run.ID, &run.ClosingDate, &yearWeek, &run.Clusters, &run.Materials,
		&run.Weeks, &run.Adjustments, &run.TotalOrders, &run.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan run: %w", err)
	}

	run.YearWeek = isoweek.YearWeek(yearWeek)
	return &run, nil
}

// GetRunOrders obtiene las compras sugeridas de una corrida
func (r *runRepository) GetRunOrders(ctx context.Context, id int64) ([]models.RecommendedOrder, error) {
	rows, err := r.stmts["get_run_orders"].QueryContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run orders: %w", err)
	}
	defer rows.Close()

	var orders []models.RecommendedOrder
	for rows.Next() {
		var o models.RecommendedOrder
		var yearWeek int
		var date sql.NullTime
		var price decimal.NullDecimal
		err := rows.Scan(
			&o.Material, &o.Description, &o.Unit, &date, &yearWeek, &o.Quantity,
			&o.SupplierCurrency, &price, &o.SupplierNotes, &o.Notes, &o.Status,
			&o.Registration, &o.Supplier, &o.SupplierName, &o.SupplierPaymentTerm,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run order: %w", err)
		}

		o.YearWeek = isoweek.YearWeek(yearWeek)
		if date.Valid {
			d := date.Time
			o.Date = &d
		}
		if price.Valid {
			p := price.Decimal
			o.SupplierPrice = &p
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// ListRuns lista las corridas más recientes
func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]*models.PlanRun, error) {
	rows, err := r.stmts["list_runs"].QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.PlanRun
	for rows.Next() {
		var run models.PlanRun
		var yearWeek int
		err := rows.Scan(
			&run.ID, &run.ClosingDate, &yearWeek, &run.Clusters, &run.Materials,
			&run.Weeks, &run.Adjustments, &run.TotalOrders, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan run: %w", err)
		}
		run.YearWeek = isoweek.YearWeek(yearWeek)
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
