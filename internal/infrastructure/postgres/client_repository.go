package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

const clientsTable = "clients"

var clientColumns = []string{
	"id", "user_id", "name", "document_type", "document_number", "email", "phone", "address",
	"debt", "invoicing_notes", "created_at", "updated_at",
}

type clientRow struct {
	ID             string              `db:"id"`
	UserID         string              `db:"user_id"`
	Name           string              `db:"name"`
	DocumentType   string              `db:"document_type"`
	DocumentNumber string              `db:"document_number"`
	Email          string              `db:"email"`
	Phone          string              `db:"phone"`
	Address        string              `db:"address"`
	Debt           decimal.Decimal     `db:"debt"`
	InvoicingNotes []entity.Attachment `db:"invoicing_notes"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

func (r clientRow) toEntity() *entity.Client {
	return &entity.Client{
		ID: r.ID, UserID: r.UserID, Name: r.Name,
		DocumentType: r.DocumentType, DocumentNumber: r.DocumentNumber,
		Email: r.Email, Phone: r.Phone, Address: r.Address, Debt: r.Debt,
		InvoicingNotes: r.InvoicingNotes, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// ClientRepo implementación de ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

func notes(c *entity.Client) []entity.Attachment {
	if c.InvoicingNotes == nil {
		return []entity.Attachment{}
	}
	return c.InvoicingNotes
}

// Create persiste un cliente; ErrDuplicate si el documento ya existe para el usuario.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query, args, err := psql.Insert(clientsTable).Columns(clientColumns...).
		Values(c.ID, c.UserID, c.Name, c.DocumentType, c.DocumentNumber, c.Email, c.Phone, c.Address,
			c.Debt, notes(c), c.CreatedAt, c.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert client: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", mapConnError(err))
	}
	return nil
}

// GetByID obtiene un cliente; (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, userID, id string) (*entity.Client, error) {
	return r.get(ctx, sq.Eq{"user_id": userID, "id": id})
}

// GetByDocument busca por tipo (sin distinguir mayúsculas) y número de documento.
func (r *ClientRepo) GetByDocument(ctx context.Context, userID, documentType, documentNumber string) (*entity.Client, error) {
	return r.get(ctx, sq.And{
		sq.Eq{"user_id": userID, "document_number": documentNumber},
		sq.Expr("upper(document_type) = ?", strings.ToUpper(documentType)),
	})
}

func (r *ClientRepo) get(ctx context.Context, where sq.Sqlizer) (*entity.Client, error) {
	query, args, err := psql.Select(clientColumns...).From(clientsTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get client: %w", err)
	}
	var row clientRow
	if err := pgxscan.Get(ctx, r.q, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", mapConnError(err))
	}
	return row.toEntity(), nil
}

// Update reemplaza los datos del cliente sin tocar la deuda.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query, args, err := psql.Update(clientsTable).
		Set("name", c.Name).
		Set("document_type", c.DocumentType).
		Set("document_number", c.DocumentNumber).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("address", c.Address).
		Set("invoicing_notes", notes(c)).
		Set("updated_at", c.UpdatedAt).
		Where(sq.Eq{"user_id": c.UserID, "id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update client: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", mapConnError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el cliente.
func (r *ClientRepo) Delete(ctx context.Context, userID, id string) error {
	query, args, err := psql.Delete(clientsTable).Where(sq.Eq{"user_id": userID, "id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete client: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete client: %w", mapConnError(err))
	}
	return nil
}

// ListByUser clientes del usuario ordenados por nombre.
func (r *ClientRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Client, error) {
	query, args, err := psql.Select(clientColumns...).From(clientsTable).
		Where(sq.Eq{"user_id": userID}).OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list clients: %w", err)
	}
	var rows []clientRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list clients: %w", mapConnError(err))
	}
	out := make([]*entity.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
