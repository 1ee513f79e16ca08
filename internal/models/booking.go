package models

import "time"

// Booking is a trial-lesson request submitted for a teacher. Submissions are
// accepted from anonymous visitors, so UserID is optional.
type Booking struct {
	ID            string    `db:"id" json:"id"`
	TeacherID     string    `db:"teacher_id" json:"teacher_id"`
	UserID        *string   `db:"user_id" json:"user_id,omitempty"`
	FullName      string    `db:"full_name" json:"full_name"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	Reason        string    `db:"reason" json:"reason"`
	PreferredTime string    `db:"preferred_time" json:"preferred_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// BookingRequest is the trial-lesson form payload.
type BookingRequest struct {
	TeacherID     string `json:"teacher_id" validate:"required"`
	FullName      string `json:"full_name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=5,max=30"`
	Reason        string `json:"reason" validate:"required,oneof='Career and business' 'Lesson for kids' 'Living abroad' 'Exams and coursework' 'Culture0x2C travel or hobby'"`
	PreferredTime string `json:"preferred_time" validate:"omitempty,max=100"`
}
