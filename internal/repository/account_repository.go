package repository

import (
	"context"
	"strings"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/storage"
)

// AccountRepository 账号数据访问接口
type AccountRepository interface {
	List(ctx context.Context) ([]models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, id string, fn func(*models.Account) error) (*models.Account, error)
	ReplaceAll(ctx context.Context, accounts []models.Account) error
}

// StoreAccountRepository 基于集合存储的账号仓库
type StoreAccountRepository struct {
	items collection[models.Account]
}

// NewAccountRepository 创建账号仓库
func NewAccountRepository(store storage.Store) *StoreAccountRepository {
	return &StoreAccountRepository{items: newCollection[models.Account](store, constants.CollectionAccounts)}
}

// List 全部账号
func (r *StoreAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	return r.items.all(ctx)
}

// GetByID 根据 ID 获取账号
func (r *StoreAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.items.find(ctx, func(item *models.Account) bool { return item.ID == id })
}

// GetByEmail 根据邮箱获取账号（不区分大小写）
func (r *StoreAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	return r.items.find(ctx, func(item *models.Account) bool { return strings.EqualFold(item.Email, email) })
}

// Create 创建账号，邮箱唯一
func (r *StoreAccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.items.mutate(ctx, func(items *[]models.Account) error {
		for _, existing := range *items {
			if strings.EqualFold(existing.Email, account.Email) || existing.ID == account.ID {
				return ErrDuplicate
			}
		}
		*items = append(*items, *account)
		return nil
	})
}

// Update 修改账号
func (r *StoreAccountRepository) Update(ctx context.Context, id string, fn func(*models.Account) error) (*models.Account, error) {
	return r.items.update(ctx, func(item *models.Account) bool { return item.ID == id }, fn)
}

// ReplaceAll 整体替换
func (r *StoreAccountRepository) ReplaceAll(ctx context.Context, accounts []models.Account) error {
	return r.items.replace(ctx, accounts)
}
