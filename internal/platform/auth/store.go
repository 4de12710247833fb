package auth

import (
	"context"
	"database/sql"
	"errors"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *User) error
	List(ctx context.Context) ([]*User, error)
	UpdateData(ctx context.Context, id int64, username, passwordHash string) (int64, error)
	UpsertProfileImage(ctx context.Context, userID int64, name, path string) error

	GetRoleByID(ctx context.Context, id int64) (*Role, error)
	GetRoleByName(ctx context.Context, name string) (*Role, error)
	CreateRole(ctx context.Context, name string) (int64, error)
	ListRoles(ctx context.Context) ([]*Role, error)
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) UserStore {
	return &Store{db: conn}
}

const userColumns = `
SELECT u.id, u.username, u.email, u.password_hash, u.role_id, r.name, u.created_at
FROM users u
JOIN roles r ON r.id = u.role_id
`

func (s *Store) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = userColumns + `WHERE u.id = ? LIMIT 1`
	return s.scanUser(s.db.QueryRowContext(ctx, q, id))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = userColumns + `WHERE u.email = ? LIMIT 1`
	return s.scanUser(s.db.QueryRowContext(ctx, q, email))
}

func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) Create(ctx context.Context, u *User) error {
	const q = `
INSERT INTO users (username, email, password_hash, role_id, created_at)
VALUES (?, ?, ?, ?, NOW(6))
`
	res, err := s.db.ExecContext(ctx, q, u.Username, u.Email, u.PasswordHash, u.RoleID)
	if err != nil {
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *Store) List(ctx context.Context) ([]*User, error) {
	const q = userColumns + `ORDER BY u.id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateData(ctx context.Context, id int64, username, passwordHash string) (int64, error) {
	const q = `UPDATE users SET username = ?, password_hash = ? WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, username, passwordHash, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) UpsertProfileImage(ctx context.Context, userID int64, name, path string) error {
	const q = `
INSERT INTO profile_images (user_id, name, path, uploaded_at)
VALUES (?, ?, ?, NOW(6))
ON DUPLICATE KEY UPDATE name = VALUES(name), path = VALUES(path), uploaded_at = NOW(6)
`
	_, err := s.db.ExecContext(ctx, q, userID, name, path)
	return err
}

func (s *Store) GetRoleByID(ctx context.Context, id int64) (*Role, error) {
	const q = `SELECT id, name FROM roles WHERE id = ? LIMIT 1`
	var r Role
	err := s.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &r.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetRoleByName(ctx context.Context, name string) (*Role, error) {
	const q = `SELECT id, name FROM roles WHERE name = ? LIMIT 1`
	var r Role
	err := s.db.QueryRowContext(ctx, q, name).Scan(&r.ID, &r.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateRole(ctx context.Context, name string) (int64, error) {
	const q = `INSERT INTO roles (name) VALUES (?)`
	res, err := s.db.ExecContext(ctx, q, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ListRoles(ctx context.Context) ([]*Role, error) {
	const q = `SELECT id, name FROM roles ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		roles = append(roles, &r)
	}
	return roles, rows.Err()
}
