package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bookshelf-service/internal/apperr"
	"bookshelf-service/internal/entity"
)

const userColumns = "id, username, password, email"

var userFields = map[string]bool{"id": true, "username": true, "email": true}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db}
}

func scanUser(row rowScanner) (*entity.User, error) {
	user := &entity.User{}
	var email sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &email); err != nil {
		return nil, err
	}
	user.Email = fromNullString(email)
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := "INSERT INTO `user` (username, password, email) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, query, user.Username, user.Password, toNullString(user.Email))
	if err != nil {
		return nil, translate(err, "", "User with this username or email already exists")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate(err, "", "")
	}

	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*entity.User, error) {
	query := "SELECT " + userColumns + " FROM `user` WHERE id = ?"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("User with id %d doesn't exist", id), "")
	}
	return user, nil
}

// FindByField returns the first user whose field equals value. Lookups by
// password are not supported.
func (r *UserRepository) FindByField(ctx context.Context, field string, value any) (*entity.User, error) {
	if !userFields[field] {
		return nil, apperr.InvalidRequest("unknown user field %q", field)
	}

	query := "SELECT " + userColumns + " FROM `user` WHERE " + field + " = ? ORDER BY id LIMIT 1"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("User with %s %v doesn't exist", field, value), "")
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.FindByField(ctx, "username", username)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User

	query := "SELECT " + userColumns + " FROM `user` ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translate(err, "", "")
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "", "")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "", "")
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := "UPDATE `user` SET username = ?, password = ?, email = ? WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, user.Username, user.Password, toNullString(user.Email), user.ID)
	if err != nil {
		return nil, translate(err, "", "User with this username or email already exists")
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, user *entity.User) error {
	query := "DELETE FROM `user` WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, user.ID)
	if err != nil {
		return translate(err, "", "")
	}
	return requireAffected(res, fmt.Sprintf("User with id %d doesn't exist", user.ID))
}
