package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"cinefilia/internal/domain"
)

const errDuplicateEntry = 1062

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON[T any](xs []T) string {
	if xs == nil {
		return "[]"
	}
	b, err := json.Marshal(xs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// placeholders returns "?,?,?" for n args.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return err
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.Store = (*Repo)(nil)

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ---- users ----

type scanner interface{ Scan(dest ...any) error }

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	var avatar, first, last sql.NullString
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &avatar, &first, &last, &u.PasswordHash, &u.CreatedAt); err != nil {
		return domain.User{}, err
	}
	u.Avatar, u.FirstName, u.LastName = avatar.String, first.String, last.String
	return u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Username, u.Email, nullStr(u.Avatar), nullStr(u.FirstName), nullStr(u.LastName), u.PasswordHash, u.CreatedAt)
	if isDuplicate(err) {
		return fmt.Errorf("%w: username or email already taken", domain.ErrConflict)
	}
	return err
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, notFound("user", id, err)
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	return u, notFound("user", email, err)
}

func (r *Repo) ListUsers(ctx context.Context, ids []string) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	args := make([]any, 0, len(ids))
	if len(ids) > 0 {
		q = `SELECT ` + userColumns + ` FROM users WHERE id IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, updateUserSQL, u.Username, nullStr(u.Avatar), nullStr(u.FirstName), nullStr(u.LastName), u.ID)
	if isDuplicate(err) {
		return fmt.Errorf("%w: username already taken", domain.ErrConflict)
	}
	if err != nil {
		return err
	}
	return r.affected(ctx, res, "users", "user", u.ID)
}

// affected distinguishes "no such row" from "row unchanged" (MySQL reports
// matched-but-unchanged rows as 0 affected).
func (r *Repo) affected(ctx context.Context, res sql.Result, table, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil || n > 0 {
		return err
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	return notFound(kind, id, err)
}
