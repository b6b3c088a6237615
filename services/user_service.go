package services

import (
	"context"
	"errors"

	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/repositories"
)

type UpdateUserInput struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	TrainerID *int    `json:"trainer_id,omitempty"`
	Banned    bool    `json:"banned"`
	BanReason *string `json:"ban_reason,omitempty"`
}

type UserService interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int, input UpdateUserInput, actorRole models.UserRole) (*models.User, error)
	SetUserRole(ctx context.Context, id int, role models.UserRole, actorRole models.UserRole) (*models.User, error)
	DeleteUser(ctx context.Context, id int, actorRole models.UserRole) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int, input UpdateUserInput, actorRole models.UserRole) (*models.User, error) {
	if actorRole != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Name = input.Name
	user.Email = input.Email
	user.TrainerID = input.TrainerID
	user.Banned = input.Banned
	user.BanReason = input.BanReason
	if !user.Banned {
		user.BanReason = nil
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserTrainerInvalid):
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// SetUserRole assigns one of the fixed roles. Admin only.
func (s *userService) SetUserRole(ctx context.Context, id int, role models.UserRole, actorRole models.UserRole) (*models.User, error) {
	if actorRole != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, id int, actorRole models.UserRole) error {
	if actorRole != models.RoleAdmin {
		return ErrForbiddenOperation
	}
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
