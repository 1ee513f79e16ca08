package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/learnlingo/learnlingo-api/internal/models"
)

// BookingRepository persists trial-lesson requests.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new booking request.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO bookings (id, teacher_id, user_id, full_name, email, phone, reason, preferred_time, created_at)
		VALUES (:id, :teacher_id, :user_id, :full_name, :email, :phone, :reason, :preferred_time, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// ListByUser returns booking requests submitted by the given account,
// newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	const query = `SELECT id, teacher_id, user_id, full_name, email, phone, reason, preferred_time, created_at
		FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	return bookings, nil
}
