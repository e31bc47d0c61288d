// internal/domain/models/registration.go
package models

// UserRecord is a registered teacher as returned by GET /registrations.
// Phone is unique per registered user.
type UserRecord struct {
	ID       int    `json:"id"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	School   string `json:"school"`
	District string `json:"district"`
	Language string `json:"language"`
}
