// Package store implements persistence for users and transactions on top of
// GORM. Every transaction read or write is scoped by the owning user; an
// ownership mismatch is indistinguishable from a missing record.
package store

import (
	"errors"
	"strings"

	"github.com/gitKrishh/finance-tracker/internal/models"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore owns user records and their credentials.
type UserStore struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserStore(db *gorm.DB, bcryptCost int) *UserStore {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserStore{db: db, bcryptCost: bcryptCost}
}

// Register creates a user with a hashed password. The email is stored
// lowercased and must be unique.
func (s *UserStore) Register(fullName, email, password string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" || password == "" {
		return nil, util.BadRequest("All fields are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, util.Conflict("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate looks a user up by email and checks the password against the
// stored hash. An unknown email and a wrong password fail differently: the
// former is NotFound, the latter Unauthorized.
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, util.BadRequest("Email and password are required")
	}

	user, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, util.Unauthorized("Invalid user credentials")
	}
	return user, nil
}

// GetByEmail returns the user with the given email, or NotFound.
func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("User does not exist")
		}
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id, or NotFound.
func (s *UserStore) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("User does not exist")
		}
		return nil, err
	}
	return &user, nil
}

// SaveRefreshToken persists the single active refresh token for the user,
// implicitly invalidating any prior one by overwrite.
func (s *UserStore) SaveRefreshToken(id uint, refreshToken string) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("refresh_token", refreshToken).Error
}

// ClearRefreshToken removes the persisted refresh token. Idempotent.
func (s *UserStore) ClearRefreshToken(id uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("refresh_token", "").Error
}

// UpdateProfile overwrites the user's name and email. Both are required.
func (s *UserStore) UpdateProfile(id uint, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, util.BadRequest("Full name and email are required")
	}

	// another account may already hold the new email
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, util.Conflict("User with this email already exists")
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"full_name": fullName, "email": email}).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ChangePassword re-hashes and persists a new password after checking the
// old one against the stored hash.
func (s *UserStore) ChangePassword(id uint, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return util.BadRequest("Old and new passwords are required")
	}

	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return util.Unauthorized("Invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", string(hash)).Error
}
