// Package docstore keeps JSON documents in Postgres tables that share one
// shape: id, optional owner, payload and timestamps. Payloads are encrypted
// when a cipher is configured.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"onboarding/internal/platform/querier"
)

var ErrNotFound = errors.New("document not found")

type Cipher interface {
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Meta is embedded by every stored record so the HTTP layer sees id and
// timestamps next to the form fields.
type Meta struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Row struct {
	Meta
	Payload []byte
}

type Collection struct {
	DB     querier.Querier
	Cipher Cipher
	table  string
	now    func() time.Time
}

func NewCollection(db querier.Querier, cipher Cipher, table string) *Collection {
	return &Collection{
		DB:     db,
		Cipher: cipher,
		table:  pgx.Identifier{table}.Sanitize(),
		now:    time.Now,
	}
}

func (c *Collection) Insert(ctx context.Context, userID string, doc any) (Row, error) {
	payload, err := c.seal(doc)
	if err != nil {
		return Row{}, err
	}
	now := c.now().UTC().Truncate(time.Microsecond)
	row := Row{Meta: Meta{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}}
	_, err = c.DB.Exec(ctx, fmt.Sprintf(`
    INSERT INTO %s (id, user_id, payload, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5)
  `, c.table), row.ID, nullIfEmpty(userID), payload, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return Row{}, fmt.Errorf("insert %s: %w", c.table, err)
	}
	row.Payload, err = json.Marshal(doc)
	return row, err
}

func (c *Collection) Get(ctx context.Context, id string) (Row, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Row{}, ErrNotFound
	}
	return c.scanOne(c.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT id, COALESCE(user_id::text, ''), payload, created_at, updated_at
    FROM %s WHERE id = $1
  `, c.table), id))
}

// Latest returns the most recent document for userID, or across all owners
// when userID is empty.
func (c *Collection) Latest(ctx context.Context, userID string) (Row, error) {
	if userID == "" {
		return c.scanOne(c.DB.QueryRow(ctx, fmt.Sprintf(`
      SELECT id, COALESCE(user_id::text, ''), payload, created_at, updated_at
      FROM %s ORDER BY created_at DESC LIMIT 1
    `, c.table)))
	}
	if _, err := uuid.Parse(userID); err != nil {
		return Row{}, ErrNotFound
	}
	return c.scanOne(c.DB.QueryRow(ctx, fmt.Sprintf(`
    SELECT id, COALESCE(user_id::text, ''), payload, created_at, updated_at
    FROM %s WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1
  `, c.table), userID))
}

// Page lists documents newest first together with the total count.
func (c *Collection) Page(ctx context.Context, userID string, limit, offset int) ([]Row, int, error) {
	where, args := "", []any{}
	if userID != "" {
		where = " WHERE user_id::text = $1"
		args = append(args, userID)
	}

	var total int
	var rows []Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.DB.QueryRow(gctx, "SELECT COUNT(1) FROM "+c.table+where, args...).Scan(&total)
	})
	g.Go(func() error {
		listArgs := append(append([]any{}, args...), limit, offset)
		query := fmt.Sprintf(`
      SELECT id, COALESCE(user_id::text, ''), payload, created_at, updated_at
      FROM %s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d
    `, c.table, where, len(args)+1, len(args)+2)
		result, err := c.DB.Query(gctx, query, listArgs...)
		if err != nil {
			return err
		}
		defer result.Close()
		for result.Next() {
			row, err := c.scanRow(result)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return result.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("page %s: %w", c.table, err)
	}
	return rows, total, nil
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	var total int
	err := c.DB.QueryRow(ctx, "SELECT COUNT(1) FROM "+c.table).Scan(&total)
	return total, err
}

func (c *Collection) Replace(ctx context.Context, id string, doc any) (Row, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Row{}, ErrNotFound
	}
	payload, err := c.seal(doc)
	if err != nil {
		return Row{}, err
	}
	return c.scanOne(c.DB.QueryRow(ctx, fmt.Sprintf(`
    UPDATE %s SET payload = $2, updated_at = $3
    WHERE id = $1
    RETURNING id, COALESCE(user_id::text, ''), payload, created_at, updated_at
  `, c.table), id, payload, c.now().UTC().Truncate(time.Microsecond)))
}

// Delete removes the document and returns it. Referenced upload files are
// left on disk.
func (c *Collection) Delete(ctx context.Context, id string) (Row, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Row{}, ErrNotFound
	}
	return c.scanOne(c.DB.QueryRow(ctx, fmt.Sprintf(`
    DELETE FROM %s WHERE id = $1
    RETURNING id, COALESCE(user_id::text, ''), payload, created_at, updated_at
  `, c.table), id))
}

// Decode unmarshals the payload into dst and stamps the row metadata when
// dst embeds Meta.
func Decode[T any](row Row, dst *T) error {
	if err := json.Unmarshal(row.Payload, dst); err != nil {
		return fmt.Errorf("decode document %s: %w", row.ID, err)
	}
	if stamped, ok := any(dst).(interface{ SetMeta(Meta) }); ok {
		stamped.SetMeta(row.Meta)
	}
	return nil
}

func (m *Meta) SetMeta(meta Meta) {
	*m = meta
}

func (c *Collection) scanOne(row pgx.Row) (Row, error) {
	out, err := c.scanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, ErrNotFound
	}
	return out, err
}

func (c *Collection) scanRow(row pgx.Row) (Row, error) {
	var out Row
	var stored []byte
	if err := row.Scan(&out.ID, &out.UserID, &stored, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return Row{}, err
	}
	plain, err := c.open(stored)
	if err != nil {
		return Row{}, fmt.Errorf("open %s %s: %w", c.table, out.ID, err)
	}
	out.Payload = plain
	return out, nil
}

func (c *Collection) seal(doc any) ([]byte, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if c.Cipher == nil {
		return payload, nil
	}
	return c.Cipher.Encrypt(payload)
}

func (c *Collection) open(stored []byte) ([]byte, error) {
	if c.Cipher == nil {
		return stored, nil
	}
	return c.Cipher.Decrypt(stored)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
