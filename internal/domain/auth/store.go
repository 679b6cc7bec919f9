package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"onboarding/internal/platform/querier"
)

const userColumns = "id, first_name, last_name, email, role, employee_role, contact, location, status, employee_status, last_login, created_at"

const uniqueViolation = "23505"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO users (first_name, last_name, email, password_hash, role, employee_role, contact, location, status, employee_status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING `+userColumns,
		user.FirstName, user.LastName, user.Email, passwordHash, user.Role, user.EmployeeRole, user.Contact, user.Location, user.Status, user.EmployeeStatus)
	out, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return User{}, ErrEmailTaken
	}
	return out, err
}

func (s *Store) FindByEmail(ctx context.Context, email string) (Credentials, error) {
	var out Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`, password_hash
    FROM users
    WHERE email = $1
  `, email).Scan(&out.ID, &out.FirstName, &out.LastName, &out.Email, &out.Role, &out.EmployeeRole,
		&out.Contact, &out.Location, &out.Status, &out.EmployeeStatus, &out.LastLogin, &out.CreatedAt, &out.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id::text = $1", id))
}

func (s *Store) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    UPDATE users
    SET first_name = COALESCE($2, first_name),
        last_name = COALESCE($3, last_name),
        contact = COALESCE($4, contact),
        location = COALESCE($5, location),
        updated_at = now()
    WHERE id::text = $1
    RETURNING `+userColumns,
		id, update.FirstName, update.LastName, update.Contact, update.Location))
}

func (s *Store) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", id)
	return err
}

func (s *Store) UpdateEmployeeStatus(ctx context.Context, id, status string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    UPDATE users
    SET employee_status = $2, updated_at = now()
    WHERE id::text = $1
    RETURNING `+userColumns, id, status))
}

// SignupsByMonth counts users created in [from, until) per calendar month
// and employee role.
func (s *Store) SignupsByMonth(ctx context.Context, from, until time.Time, employeeRoles []string) ([]SignupCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT EXTRACT(MONTH FROM created_at)::int AS month, employee_role, COUNT(1)
    FROM users
    WHERE created_at >= $1 AND created_at < $2 AND employee_role = ANY($3)
    GROUP BY month, employee_role
    ORDER BY month
  `, from, until, employeeRoles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SignupCount{}
	for rows.Next() {
		var c SignupCount
		if err := rows.Scan(&c.Month, &c.EmployeeRole, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListByEmployeeRole(ctx context.Context, employeeRole string, limit, offset int) ([]User, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE employee_role = $1", employeeRole).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE employee_role = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, employeeRole, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	users, err := collectUsers(rows)
	return users, total, err
}

// Search matches users whose names contain the given fragments,
// case-insensitively. Empty fragments are ignored.
func (s *Store) Search(ctx context.Context, firstName, lastName string) ([]User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE 1=1"
	var args []any
	if firstName != "" {
		args = append(args, "%"+escapeLike(firstName)+"%")
		query += fmt.Sprintf(" AND first_name ILIKE $%d", len(args))
	}
	if lastName != "" {
		args = append(args, "%"+escapeLike(lastName)+"%")
		query += fmt.Sprintf(" AND last_name ILIKE $%d", len(args))
	}
	query += " ORDER BY last_name, first_name"
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (s *Store) Count(ctx context.Context, filter CountFilter) (int, error) {
	query := "SELECT COUNT(1) FROM users WHERE 1=1"
	var args []any
	if filter.EmployeeRole != "" {
		args = append(args, filter.EmployeeRole)
		query += fmt.Sprintf(" AND employee_role = $%d", len(args))
	}
	if filter.ExcludeRole != "" {
		args = append(args, filter.ExcludeRole)
		query += fmt.Sprintf(" AND role <> $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.Until.IsZero() {
		args = append(args, filter.Until)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanUser(row pgx.Row) (User, error) {
	var out User
	err := row.Scan(&out.ID, &out.FirstName, &out.LastName, &out.Email, &out.Role, &out.EmployeeRole,
		&out.Contact, &out.Location, &out.Status, &out.EmployeeStatus, &out.LastLogin, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return out, err
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(value)
}
