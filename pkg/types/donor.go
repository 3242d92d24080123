package types

import "time"

const DefaultDonorStatus = "Active Donor"

type Donor struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	BloodType         BloodType `db:"blood_type" json:"bloodType"`
	Age               int       `db:"age" json:"age"`
	CountryCode       string    `db:"country_code" json:"countryCode"`
	PhoneNumber       string    `db:"phone_number" json:"phoneNumber"`
	Email             *string   `db:"email" json:"email,omitempty"`
	Location          string    `db:"location" json:"location"`
	DonationFrequency string    `db:"donation_frequency" json:"donationFrequency"`
	Status            string    `db:"status" json:"status"`
	History           []string  `db:"history" json:"history"` // text[]
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// Contact is the country code and phone number joined the way it is displayed.
func (d *Donor) Contact() string {
	return d.CountryCode + d.PhoneNumber
}

// DonorForm is the registration and profile-edit form body.
type DonorForm struct {
	Name              string `form:"name"`
	BloodType         string `form:"blood_type"`
	Age               string `form:"age"`
	CountryCode       string `form:"country_code"`
	PhoneNumber       string `form:"phone_number"`
	Email             string `form:"email"`
	Location          string `form:"location"`
	DonationFrequency string `form:"donation_frequency"`
	Status            string `form:"status"`
}

type DonationForm struct {
	Date  string `form:"donation_date"`
	Units string `form:"donation_units"`
}

func DonationFrequencies() []string {
	return []string{"Every 3 months", "Every 6 months", "Once a year", "Occasionally"}
}

func DonorStatuses() []string {
	return []string{DefaultDonorStatus, "Temporarily Unavailable", "Inactive"}
}
