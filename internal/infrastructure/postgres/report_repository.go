package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de reportes sobre PostgreSQL. Solo lectura.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes. Pasar pool (no necesita tx).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// CountProducts devuelve el total de productos distintos.
func (r *ReportRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// TotalStockValue devuelve Σ price × quantity sobre todos los productos.
func (r *ReportRepo) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(price * quantity), 0) FROM products`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total stock value: %w", err)
	}
	return total, nil
}

// LowStockProducts devuelve los productos con quantity <= threshold, los más bajos primero.
func (r *ReportRepo) LowStockProducts(ctx context.Context, threshold int64) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity <= $1 ORDER BY quantity ASC, name ASC`
	rows, err := r.q.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// SalesReport lista ventas del período con su número de líneas, más reciente primero.
func (r *ReportRepo) SalesReport(ctx context.Context, from, to *time.Time) ([]repository.SaleSummaryRow, error) {
	query := `
		SELECT s.id, s.total_amount, s.created_at, COUNT(si.id)
		FROM sales s
		LEFT JOIN sale_items si ON si.sale_id = s.id
		WHERE 1=1`
	args := []any{}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND s.created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND s.created_at <= $%d", len(args))
	}
	query += " GROUP BY s.id, s.total_amount, s.created_at ORDER BY s.created_at DESC, s.id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	defer rows.Close()
	var report []repository.SaleSummaryRow
	for rows.Next() {
		var row repository.SaleSummaryRow
		if err := rows.Scan(&row.SaleID, &row.Total, &row.Date, &row.ItemCount); err != nil {
			return nil, fmt.Errorf("scan sales report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
