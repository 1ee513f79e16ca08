package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
)

type memoryBookings struct {
	bookings []models.Booking
}

func (m *memoryBookings) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = "b1"
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *memoryBookings) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func validBookingRequest() models.BookingRequest {
	return models.BookingRequest{
		TeacherID: "t1",
		FullName:  "Jane Doe",
		Email:     "Jane@Example.com",
		Phone:     "+380501234567",
		Reason:    "Career and business",
	}
}

func TestBookingServiceBookAnonymous(t *testing.T) {
	store := &memoryBookings{}
	svc := NewBookingService(store, &fakeDirectory{teachers: sampleTeachers()}, validator.New(), zap.NewNop())

	booking, err := svc.Book(context.Background(), "", validBookingRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Nil(t, booking.UserID)
	assert.Equal(t, "jane@example.com", booking.Email)
	assert.False(t, booking.CreatedAt.IsZero())
}

func TestBookingServiceBookAuthenticated(t *testing.T) {
	store := &memoryBookings{}
	svc := NewBookingService(store, &fakeDirectory{teachers: sampleTeachers()}, validator.New(), zap.NewNop())

	booking, err := svc.Book(context.Background(), "u1", validBookingRequest())
	require.NoError(t, err)
	require.NotNil(t, booking.UserID)
	assert.Equal(t, "u1", *booking.UserID)

	list, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBookingServiceRejectsUnknownTeacher(t *testing.T) {
	svc := NewBookingService(&memoryBookings{}, &fakeDirectory{teachers: sampleTeachers()}, validator.New(), zap.NewNop())

	req := validBookingRequest()
	req.TeacherID = "ghost"
	_, err := svc.Book(context.Background(), "", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceValidatesPayload(t *testing.T) {
	svc := NewBookingService(&memoryBookings{}, &fakeDirectory{teachers: sampleTeachers()}, validator.New(), zap.NewNop())

	req := validBookingRequest()
	req.Email = "not-an-email"
	_, err := svc.Book(context.Background(), "", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validBookingRequest()
	req.Reason = "Something else entirely"
	_, err = svc.Book(context.Background(), "", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
