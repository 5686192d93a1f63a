package bookings

import "time"

// Submission is a client's request against one availability slot. Payment
// is tracked by staff outside the system; IsPaid only records the outcome.
type Submission struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	SlotID      string    `bson:"slot_id" json:"slot_id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Description string    `bson:"description" json:"description"`
	IsPaid      bool      `bson:"is_paid" json:"is_paid"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

type SubmitRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"omitempty,max=40"`
	Description string `json:"description" validate:"required,max=5000"`
}

type PaymentRequest struct {
	IsPaid *bool `json:"is_paid" validate:"required"`
}

type ListFilter struct {
	SlotID string
	IsPaid *bool
}
