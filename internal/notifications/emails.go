package notifications

import (
	"bytes"
	"html/template"
	"time"

	"lawsite-backend/internal/bookings"
	"lawsite-backend/internal/leads"
	"lawsite-backend/internal/slots"
)

const bookingReceivedTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Dear {{.Name}},</p>
  <p>Thank you for your consultation request. We have received the following details:</p>
  <ul>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.StartTime}} - {{.EndTime}} ({{.DurationMinutes}} minutes)</li>
    <li>Consultation: {{.TypeLabel}}</li>
    <li>Reference: {{.BookingID}}</li>
  </ul>
  <p>We will be in touch to confirm the appointment and the consultation fee.</p>
  <p>Kind regards.</p>
</body>
</html>`

const bookingAlertTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New consultation request</h3>
  <p><strong>Slot:</strong> {{.Date}} {{.StartTime}} - {{.EndTime}} ({{.TypeLabel}})</p>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Received:</strong> {{.Received}}</p>
  <p><strong>ID:</strong> {{.BookingID}}</p>
  <p><strong>Description:</strong><br/>{{.Description}}</p>
</body>
</html>`

const enquiryAlertTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New website enquiry</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Received:</strong> {{.Received}}</p>
  <p><strong>ID:</strong> {{.LeadID}}</p>
  <p><strong>Message:</strong><br/>{{.Message}}</p>
</body>
</html>`

var (
	bookingReceivedTmpl = template.Must(template.New("booking_received").Parse(bookingReceivedTemplate))
	bookingAlertTmpl    = template.Must(template.New("booking_alert").Parse(bookingAlertTemplate))
	enquiryAlertTmpl    = template.Must(template.New("enquiry_alert").Parse(enquiryAlertTemplate))
)

const receivedLayout = "02 Jan 2006 15:04"

type bookingEmailData struct {
	Name            string
	Email           string
	Phone           string
	Description     string
	Date            string
	StartTime       string
	EndTime         string
	DurationMinutes int
	TypeLabel       string
	BookingID       string
	Received        string
}

func newBookingEmailData(item bookings.Submission, slot slots.Slot, loc *time.Location) bookingEmailData {
	return bookingEmailData{
		Name:            item.Name,
		Email:           item.Email,
		Phone:           orDash(item.Phone),
		Description:     item.Description,
		Date:            slot.Date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		DurationMinutes: slot.DurationMinutes(loc),
		TypeLabel:       slotTypeLabel(slot.SlotType),
		BookingID:       item.ID,
		Received:        item.CreatedAt.In(loc).Format(receivedLayout),
	}
}

type enquiryEmailData struct {
	Name     string
	Email    string
	Phone    string
	Message  string
	LeadID   string
	Received string
}

func newEnquiryEmailData(lead leads.Lead, loc *time.Location) enquiryEmailData {
	return enquiryEmailData{
		Name:     lead.Name,
		Email:    lead.Email,
		Phone:    orDash(lead.Phone),
		Message:  lead.Message,
		LeadID:   lead.ID,
		Received: lead.CreatedAt.In(loc).Format(receivedLayout),
	}
}

func renderHTML(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func slotTypeLabel(value string) string {
	switch value {
	case slots.TypeInitial:
		return "Initial consultation"
	case slots.TypeFollowup:
		return "Follow-up"
	case slots.TypeGeneral:
		return "General enquiry"
	default:
		return value
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
