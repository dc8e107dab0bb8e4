package services

import (
	"errors"
	"time"

	"flota-backend/internal/models"
	"flota-backend/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type ApproveUserRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN ADMIN_L2 MANAGER DRIVER GUEST"`
}

type UpdateUserRequest struct {
	Name          string  `json:"name,omitempty"`
	Role          string  `json:"role,omitempty" validate:"omitempty,oneof=ADMIN ADMIN_L2 MANAGER DRIVER GUEST"`
	CostCenter    *string `json:"costCenter,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	ReceiveAlerts *bool   `json:"receiveAlerts,omitempty"`
}

func (s *UserService) GetUsers() ([]models.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	// never ship password hashes, even to admins
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// ApproveUser grants access to a pending account with the given role.
func (s *UserService) ApproveUser(id string, req *ApproveUserRequest) (*models.User, error) {
	if err := s.userRepo.SetApproval(id, true, req.Role); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) UpdateUser(id string, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.CostCenter != nil {
		user.CostCenter = *req.CostCenter
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.ReceiveAlerts != nil {
		user.ReceiveAlerts = *req.ReceiveAlerts
	}
	user.UpdatedAt = time.Now()

	updated, err := s.userRepo.Update(id, user)
	if err != nil {
		return nil, err
	}
	updated.Password = ""
	return updated, nil
}

// DeleteUser removes an account. Callers must hold the ADMIN role; deleting
// your own account is rejected.
func (s *UserService) DeleteUser(id, callerID string) error {
	if id == callerID {
		return errors.New("cannot delete your own account")
	}
	return s.userRepo.Delete(id)
}
