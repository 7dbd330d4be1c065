package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vael-labs/vael-backend/internal/domain/user"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

type Repo interface {
	Create(ctx context.Context, tx *gorm.DB, u *user.User) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*user.User, error)
	GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*user.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, log *logger.Logger) Repo {
	return &repo{db: db, log: log}
}

func (r *repo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *repo) Create(ctx context.Context, tx *gorm.DB, u *user.User) error {
	return r.conn(tx).WithContext(ctx).Create(u).Error
}

func (r *repo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*user.User, error) {
	var users []*user.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.conn(tx).WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*user.User, error) {
	var users []*user.User
	if len(emails) == 0 {
		return users, nil
	}
	err := r.conn(tx).WithContext(ctx).Where("email IN ?", emails).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var existing user.User
	err := r.conn(tx).WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
