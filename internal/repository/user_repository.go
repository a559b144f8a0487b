package repository

import (
	"context"
	"fmt"
	"time"

	"datavault-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type UserRepository interface {
	Create(user *domain.User) error
	FindByEmail(email string) (*domain.User, error)
	FindByID(id string) (*domain.User, error)
	EmailExists(email string) (bool, error)
	UsernameExists(username string) (bool, error)
}

type userRepository struct {
	client  *kivik.Client
	dbName  string
	timeout time.Duration
}

func NewUserRepository(client *kivik.Client, dbName string, timeout time.Duration) UserRepository {
	return &userRepository{
		client:  client,
		dbName:  dbName,
		timeout: timeout,
	}
}

func (r *userRepository) Create(user *domain.User) error {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("user:%s", user.ID)
	if _, err := db.Put(ctx, docID, user); err != nil {
		return fmt.Errorf("failed to create user: %w", storageErr(err))
	}

	return nil
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"email": email,
		},
		"limit": 1,
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", storageErr(err))
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("user not found")
	}

	var user domain.User
	if err := rows.ScanDoc(&user); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)

	docID := fmt.Sprintf("user:%s", id)
	row := db.Get(ctx, docID)

	var user domain.User
	if err := row.ScanDoc(&user); err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return &user, nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	_, err := r.FindByEmail(email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *userRepository) UsernameExists(username string) (bool, error) {
	ctx, cancel := r.opContext()
	defer cancel()

	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"username": username,
		},
		"limit": 1,
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to query user by username: %w", storageErr(err))
	}
	defer rows.Close()

	return rows.Next(), nil
}

func (r *userRepository) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}
