package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/auth"
	accountDatamodel "github.com/frahmantamala/people-console/internal/core/datamodel/account"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, acc *accountDatamodel.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, acc.Email)
		if err != nil {
			return err
		}
		if taken {
			return internal.ErrEmailTaken
		}
		return tx.Create(acc).Error
	})
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*accountDatamodel.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// ChangeEmail re-keys the account. The password hash carries over.
func (r *AccountRepository) ChangeEmail(ctx context.Context, oldEmail, newEmail string) error {
	if oldEmail == newEmail {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, newEmail)
		if err != nil {
			return err
		}
		if taken {
			return internal.ErrEmailTaken
		}

		res := tx.Model(&accountDatamodel.Account{}).
			Where("email = ?", oldEmail).
			Update("email", newEmail)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return auth.ErrAccountNotFound
		}
		return nil
	})
}

func exists(tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := tx.Model(&accountDatamodel.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
