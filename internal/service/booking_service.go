package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
)

type bookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

type bookingTeacherLookup interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// BookingService handles trial-lesson requests.
type BookingService struct {
	store     bookingStore
	teachers  bookingTeacherLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(store bookingStore, teachers bookingTeacherLookup, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BookingService{store: store, teachers: teachers, validator: validate, logger: logger}
}

// Book validates and persists a trial-lesson request. userID may be empty for
// anonymous submissions.
func (s *BookingService) Book(ctx context.Context, userID string, req models.BookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify teacher")
	}
	if teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	booking := &models.Booking{
		TeacherID:     req.TeacherID,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		Reason:        req.Reason,
		PreferredTime: strings.TrimSpace(req.PreferredTime),
	}
	if userID != "" {
		booking.UserID = &userID
	}

	if err := s.store.Create(ctx, booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save booking")
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("teacher_id", booking.TeacherID))
	return booking, nil
}

// ListForUser returns the authenticated user's booking history.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}
