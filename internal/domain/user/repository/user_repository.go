package repository

import (
	"wastetoworth/internal/domain/user/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(id string) (*model.User, error)
	// AdminEmails 返回所有管理员的邮箱，用作通知收件人
	AdminEmails() ([]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) AdminEmails() ([]string, error) {
	var emails []string
	err := r.db.Model(&model.User{}).
		Where("role = ?", model.RoleAdmin).
		Pluck("email", &emails).Error
	return emails, err
}
