package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentora/internal/domain"
)

func TestPropertyLifecycle(t *testing.T) {
	_, properties := newTestRepos(t)
	svc := NewPropertyService(properties)
	ctx := context.Background()

	listing, err := svc.Create(ctx, CreatePropertyInput{
		OwnerID:     "owner-1",
		Title:       "Sunny flat",
		Description: "Two rooms near the park",
		Address:     "1 Main St",
		City:        "Springfield",
		State:       "IL",
		Country:     "US",
		Rent:        1500,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, domain.PropertyStatusAvailable, listing.Status)

	got, err := svc.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny flat", got.Title)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	rented, err := svc.Rent(ctx, listing.ID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusRented, rented.Status)
	assert.Equal(t, "tenant-1", rented.TenantID)

	_, err = svc.Rent(ctx, listing.ID, "tenant-2")
	assert.ErrorIs(t, err, ErrPropertyUnavailable)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyCreateValidation(t *testing.T) {
	_, properties := newTestRepos(t)
	svc := NewPropertyService(properties)
	ctx := context.Background()

	base := CreatePropertyInput{
		OwnerID: "owner-1",
		Title:   "Flat",
		Address: "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Country: "US",
		Rent:    1000,
	}

	tests := []struct {
		name   string
		mutate func(*CreatePropertyInput)
	}{
		{"missing title", func(in *CreatePropertyInput) { in.Title = "" }},
		{"missing address", func(in *CreatePropertyInput) { in.Address = "" }},
		{"missing city", func(in *CreatePropertyInput) { in.City = "" }},
		{"zero rent", func(in *CreatePropertyInput) { in.Rent = 0 }},
		{"missing owner", func(in *CreatePropertyInput) { in.OwnerID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPropertyAttachImage(t *testing.T) {
	_, properties := newTestRepos(t)
	svc := NewPropertyService(properties)
	ctx := context.Background()

	listing, err := svc.Create(ctx, CreatePropertyInput{
		OwnerID: "owner-1",
		Title:   "Flat",
		Address: "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Country: "US",
		Rent:    1000,
	})
	require.NoError(t, err)

	updated, err := svc.AttachImage(ctx, listing.ID, "owner-1", "s3://bucket/listing-images/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"s3://bucket/listing-images/a.jpg"}, updated.Images)

	_, err = svc.AttachImage(ctx, listing.ID, "owner-2", "s3://bucket/listing-images/b.jpg")
	assert.ErrorIs(t, err, ErrNotListingOwner)
}
