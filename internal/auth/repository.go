package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-service/internal/model"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:320;not null;uniqueIndex:uq_users_email"`
	PasswordHash string `gorm:"not null"`
	FullName     string `gorm:"size:255;not null;default:''"`
	CompanyName  string `gorm:"size:255;not null;default:''"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string {
	return "users"
}

func (r userRecord) toModel() model.User {
	id, _ := uuid.Parse(r.ID)
	return model.User{
		ID:          id,
		Email:       r.Email,
		FullName:    r.FullName,
		CompanyName: r.CompanyName,
		CreatedAt:   r.CreatedAt,
	}
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user; the email must not be registered yet.
func (r *UserRepository) Create(ctx context.Context, user model.User, passwordHash string) (*model.User, error) {
	record := userRecord{
		ID:           user.ID.String(),
		Email:        user.Email,
		PasswordHash: passwordHash,
		FullName:     user.FullName,
		CompanyName:  user.CompanyName,
		CreatedAt:    user.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRecord{}).Where("email = ?", record.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved := record.toModel()
	return &saved, nil
}

// FindByEmail returns the user and its password hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, string, error) {
	var record userRecord
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", err
	}
	user := record.toModel()
	return &user, record.PasswordHash, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var record userRecord
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user := record.toModel()
	return &user, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
