package service

import (
	"errors"

	"github.com/mlegrand/portfolio-backend/internal/app/model"
	"github.com/mlegrand/portfolio-backend/internal/app/repository"
	"github.com/mlegrand/portfolio-backend/pkg/logger"
	"github.com/mlegrand/portfolio-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrWrongPassword = errors.New("wrong password")

type ProfileUpdateInput struct {
	Nom    string
	Prenom string
}

// AdminUserUpdateInput mise à jour complète d'un compte par un Admin.
// Password vide : le mot de passe actuel est conservé.
type AdminUserUpdateInput struct {
	Nom      string
	Prenom   string
	Email    string
	Role     model.UserRole
	Password string
}

type UserService interface {
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
	GetAllUsers() ([]model.User, error)
	UpdateUser(userID uint, input AdminUserUpdateInput) (*model.User, error)
	DeleteUser(userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Nom != "" {
		user.Nom = input.Nom
	}
	if input.Prenom != "" {
		user.Prenom = input.Prenom
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

func (s *userService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		logger.Warn("Password change rejected: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return ErrWrongPassword
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("User password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *userService) GetAllUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *userService) UpdateUser(userID uint, input AdminUserUpdateInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Nom = input.Nom
	user.Prenom = input.Prenom
	user.Email = input.Email
	user.Role = input.Role

	if input.Password != "" {
		hash, err := util.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User account updated by admin", map[string]interface{}{
		"user_id": userID,
		"role":    input.Role,
	})
	return user, nil
}

func (s *userService) DeleteUser(userID uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(userID)
}
