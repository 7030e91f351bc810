package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/users"
	"github.com/dmitrijs2005/magicletters/internal/common"
)

// AdminService manages technician accounts on this device.
type AdminService interface {
	CreateTechnician(ctx context.Context, name, phone, email string) (*models.User, error)
	ListTechnicians(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id, name, phone, email string) error
	DeleteUser(ctx context.Context, id string) error
}

type adminService struct {
	users users.Repository
}

func NewAdminService(repo users.Repository) AdminService {
	return &adminService{users: repo}
}

func requireNamePhone(name, phone string) (string, string, error) {
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return "", "", fmt.Errorf("%w: name and phone are required", common.ErrValidation)
	}
	return name, phone, nil
}

func (s *adminService) CreateTechnician(ctx context.Context, name, phone, email string) (*models.User, error) {
	name, phone, err := requireNamePhone(name, phone)
	if err != nil {
		return nil, err
	}

	u := models.User{
		ID:    common.NewUserID(),
		Role:  models.RoleTech,
		Name:  name,
		Email: strings.TrimSpace(email),
		Phone: phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, u.ID)
}

func (s *adminService) ListTechnicians(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRole(ctx, models.RoleTech)
}

func (s *adminService) UpdateUser(ctx context.Context, id, name, phone, email string) error {
	name, phone, err := requireNamePhone(name, phone)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, models.User{ID: id, Name: name, Phone: phone, Email: strings.TrimSpace(email)})
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
