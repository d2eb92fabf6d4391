package model

import "time"

// LeadMagnet is a generated content artifact (checklist, guide, template)
// offered to contacts in exchange for engagement. Immutable after creation
// except for the download counter.
type LeadMagnet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	Created     time.Time `json:"created"`
	Downloads   int       `json:"downloads"`
}

// DirectMessage is a generated outreach message for a single contact.
type DirectMessage struct {
	ContactID int    `json:"contactId"`
	Message   string `json:"message"`
}

// Strategy is a generated marketing strategy document for the operator.
type Strategy struct {
	Content   string    `json:"content"`
	Generated time.Time `json:"generated"`
}
