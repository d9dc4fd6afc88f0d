package service

import (
	"context"
	"errors"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

type UpdateClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// ClientService defines the interface for business logic related to clients
type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest, createdBy string) (*ClientResponse, error)
	GetClientByID(ctx context.Context, id string) (*ClientResponse, error)
	ListClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	repo repository.ClientRepository
}

// NewClientService returns a new instance of ClientService
func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func mapClientToResponse(c *model.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest, createdBy string) (*ClientResponse, error) {
	client := &model.Client{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	if uid, err := uuid.Parse(createdBy); err == nil {
		client.CreatedBy = &uid
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return mapClientToResponse(client), nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*ClientResponse, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("client not found")
	}
	return mapClientToResponse(client), nil
}

func (s *clientService) ListClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error) {
	clients, total, err := s.repo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		res = append(res, *mapClientToResponse(&clients[i]))
	}
	return res, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("client not found")
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.Phone != "" {
		client.Phone = req.Phone
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.Address != "" {
		client.Address = req.Address
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return mapClientToResponse(client), nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return errors.New("client not found")
	}
	return s.repo.Delete(ctx, id)
}
