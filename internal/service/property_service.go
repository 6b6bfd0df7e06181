package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rentora/internal/domain"
	"rentora/internal/repository"
)

var (
	// ErrPropertyNotFound is returned when no listing matches the id.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrPropertyUnavailable indicates the listing cannot be rented.
	ErrPropertyUnavailable = errors.New("property is not available")
	// ErrNotListingOwner indicates the caller does not own the listing.
	ErrNotListingOwner = errors.New("not the listing owner")
)

// CreatePropertyInput carries the fields for a new listing.
type CreatePropertyInput struct {
	OwnerID     string
	Title       string
	Description string
	Address     string
	City        string
	State       string
	Country     string
	Rent        int64
}

// PropertyService coordinates listing operations backed by the repository.
type PropertyService interface {
	Create(ctx context.Context, in CreatePropertyInput) (*domain.Property, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
	Rent(ctx context.Context, propertyID, tenantID string) (*domain.Property, error)
	AttachImage(ctx context.Context, propertyID, ownerID, location string) (*domain.Property, error)
}

type propertyService struct {
	properties repository.PropertyRepository
}

func NewPropertyService(properties repository.PropertyRepository) PropertyService {
	return &propertyService{properties: properties}
}

func (s *propertyService) Create(ctx context.Context, in CreatePropertyInput) (*domain.Property, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	for field, value := range map[string]string{
		"address": in.Address,
		"city":    in.City,
		"state":   in.State,
		"country": in.Country,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
		}
	}
	if in.Rent <= 0 {
		return nil, fmt.Errorf("%w: rent must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	property := &domain.Property{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Country:     strings.TrimSpace(in.Country),
		Rent:        in.Rent,
		OwnerID:     in.OwnerID,
		Status:      domain.PropertyStatusAvailable,
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	property, err := s.properties.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

func (s *propertyService) List(ctx context.Context) ([]domain.Property, error) {
	return s.properties.List(ctx)
}

func (s *propertyService) Rent(ctx context.Context, propertyID, tenantID string) (*domain.Property, error) {
	property, err := s.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.Status != domain.PropertyStatusAvailable {
		return nil, ErrPropertyUnavailable
	}

	property.TenantID = tenantID
	property.Status = domain.PropertyStatusRented
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) AttachImage(ctx context.Context, propertyID, ownerID, location string) (*domain.Property, error) {
	property, err := s.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != ownerID {
		return nil, ErrNotListingOwner
	}

	property.Images = append(property.Images, location)
	if err := s.properties.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}
