package types

import "time"

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func Urgencies() []Urgency {
	return []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
}

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

const (
	MinRequestQuantity = 1
	MaxRequestQuantity = 10
)

type BloodRequest struct {
	ID          string    `db:"id" json:"id"`
	BloodType   BloodType `db:"blood_type" json:"bloodType"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Urgency     Urgency   `db:"urgency" json:"urgency"`
	CountryCode string    `db:"country_code" json:"countryCode"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	Email       *string   `db:"email" json:"email,omitempty"`
	Location    string    `db:"location" json:"location"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type RequestForm struct {
	BloodType   string `form:"blood_type"`
	Quantity    string `form:"quantity"`
	Urgency     string `form:"urgency"`
	CountryCode string `form:"country_code"`
	PhoneNumber string `form:"phone_number"`
	Email       string `form:"email"`
	Location    string `form:"location"`
}
