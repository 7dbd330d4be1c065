package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/vael-labs/vael-backend/internal/domain/auth"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

type UserTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, token *auth.UserToken) error
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*auth.UserToken, error)
	GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*auth.UserToken, error)
	GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*auth.UserToken, error)
	FullDeleteByTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: log}
}

func (r *userTokenRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *auth.UserToken) error {
	return r.conn(tx).WithContext(ctx).Create(token).Error
}

func (r *userTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*auth.UserToken, error) {
	var tokens []*auth.UserToken
	if len(userIDs) == 0 {
		return tokens, nil
	}
	err := r.conn(tx).WithContext(ctx).Where("user_id IN ?", userIDs).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *userTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*auth.UserToken, error) {
	var tokens []*auth.UserToken
	if len(accessTokens) == 0 {
		return tokens, nil
	}
	err := r.conn(tx).WithContext(ctx).Where("access_token IN ?", accessTokens).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *userTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*auth.UserToken, error) {
	var tokens []*auth.UserToken
	if len(refreshTokens) == 0 {
		return tokens, nil
	}
	err := r.conn(tx).WithContext(ctx).Where("refresh_token IN ?", refreshTokens).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *userTokenRepo) FullDeleteByTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) error {
	if len(accessTokens) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Unscoped().
		Where("access_token IN ?", accessTokens).
		Delete(&auth.UserToken{}).Error
}

func (r *userTokenRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Unscoped().
		Where("user_id IN ?", userIDs).
		Delete(&auth.UserToken{}).Error
}
