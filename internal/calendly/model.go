package calendly

import "time"

const (
	StatusCreated  = "created"
	StatusCanceled = "canceled"

	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
)

// Booking mirrors an appointment made on the external scheduler.
type Booking struct {
	ExternalID   string     `bson:"_id" json:"calendly_id"`
	Status       string     `bson:"status" json:"status"`
	StartTime    *time.Time `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime      *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`
	InviteeName  string     `bson:"invitee_name" json:"invitee_name"`
	InviteeEmail string     `bson:"invitee_email" json:"invitee_email"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

type webhookEnvelope struct {
	Event   string         `json:"event"`
	Payload webhookPayload `json:"payload"`
}

type webhookPayload struct {
	UUID    string         `json:"uuid"`
	Event   webhookEvent   `json:"event"`
	Invitee webhookInvitee `json:"invitee"`
}

type webhookEvent struct {
	UUID      string     `json:"uuid"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type webhookInvitee struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p webhookPayload) externalID() string {
	for _, id := range []string{p.Invitee.UUID, p.UUID, p.Event.UUID} {
		if id != "" {
			return id
		}
	}
	return "unknown"
}
