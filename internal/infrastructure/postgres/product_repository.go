package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productsTable = "products"

var productColumns = []string{"id", "user_id", "name", "category", "price", "cost_price", "stock", "min_stock", "last_updated"}

type productRow struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Name        string          `db:"name"`
	Category    string          `db:"category"`
	Price       decimal.Decimal `db:"price"`
	CostPrice   decimal.Decimal `db:"cost_price"`
	Stock       int             `db:"stock"`
	MinStock    int             `db:"min_stock"`
	LastUpdated time.Time       `db:"last_updated"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Category: r.Category,
		Price: r.Price, CostPrice: r.CostPrice, Stock: r.Stock, MinStock: r.MinStock,
		LastUpdated: r.LastUpdated,
	}
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query, args, err := psql.Insert(productsTable).Columns(productColumns...).
		Values(p.ID, p.UserID, p.Name, p.Category, p.Price, p.CostPrice, p.Stock, p.MinStock, p.LastUpdated).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product: %w", mapConnError(err))
	}
	return nil
}

// GetByID obtiene un producto; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, userID, id string) (*entity.Product, error) {
	query, args, err := psql.Select(productColumns...).From(productsTable).
		Where(sq.Eq{"user_id": userID, "id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product: %w", err)
	}
	var row productRow
	if err := pgxscan.Get(ctx, r.q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", mapConnError(err))
	}
	return row.toEntity(), nil
}

// Update actualiza datos descriptivos y precios. El stock no se toca: cambia vía Batch.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query, args, err := psql.Update(productsTable).
		Set("name", p.Name).
		Set("category", p.Category).
		Set("price", p.Price).
		Set("cost_price", p.CostPrice).
		Set("min_stock", p.MinStock).
		Set("last_updated", p.LastUpdated).
		Where(sq.Eq{"user_id": p.UserID, "id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update product: %w", mapConnError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. Ventas y movimientos históricos se conservan.
func (r *ProductRepo) Delete(ctx context.Context, userID, id string) error {
	query, args, err := psql.Delete(productsTable).Where(sq.Eq{"user_id": userID, "id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete product: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete product: %w", mapConnError(err))
	}
	return nil
}

// ListByUser productos del usuario ordenados por nombre.
func (r *ProductRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Product, error) {
	return r.list(ctx, psql.Select(productColumns...).From(productsTable).
		Where(sq.Eq{"user_id": userID}).OrderBy("name", "id"))
}

// ListLowStock productos con stock <= min_stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, userID string) ([]*entity.Product, error) {
	return r.list(ctx, psql.Select(productColumns...).From(productsTable).
		Where(sq.Eq{"user_id": userID}).Where("stock <= min_stock").OrderBy("name", "id"))
}

func (r *ProductRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.Product, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", mapConnError(err))
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
