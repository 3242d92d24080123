package server

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bloodmatch/internal/utils"
	"bloodmatch/pkg/types"
)

const (
	minDonorAge = 18
	maxDonorAge = 65

	donationDateLayout = "2006-01-02"
)

var (
	phoneNumberReg = regexp.MustCompile(`^\d{8,12}$`)
	locationReg    = regexp.MustCompile(`^[a-zA-Z\s-]+$`)
)

// validateDonorInput checks a registration or profile edit form and builds the
// donor it describes. Age is only checked when withAge is set; profile edits
// do not carry it.
func validateDonorInput(f types.DonorForm, withAge bool) (*types.Donor, map[string]string) {
	errs := map[string]string{}

	name := strings.TrimSpace(f.Name)
	if !required(name) {
		errs["name"] = "Please enter your full name."
	}

	bloodType, err := types.ParseBloodType(f.BloodType)
	if err != nil {
		errs["blood_type"] = "Please select a blood type."
	}

	var age int
	if withAge {
		age, err = strconv.Atoi(strings.TrimSpace(f.Age))
		if err != nil || age < minDonorAge || age > maxDonorAge {
			errs["age"] = "Age must be between 18 and 65."
		}
	}

	countryCode, phoneNumber, contactErr := validateContact(f.CountryCode, f.PhoneNumber)
	if contactErr != "" {
		errs["contact"] = contactErr
	}

	email, emailErr := validateEmail(f.Email)
	if emailErr != "" {
		errs["email"] = emailErr
	}

	location := strings.TrimSpace(f.Location)
	if !required(location) || !locationReg.MatchString(location) {
		errs["location"] = "Please enter a valid city name."
	}

	frequency := strings.TrimSpace(f.DonationFrequency)
	if !required(frequency) {
		errs["donation_frequency"] = "Please select donation frequency."
	}

	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = types.DefaultDonorStatus
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.Donor{
		Name:              name,
		BloodType:         bloodType,
		Age:               age,
		CountryCode:       countryCode,
		PhoneNumber:       phoneNumber,
		Email:             email,
		Location:          location,
		DonationFrequency: frequency,
		Status:            status,
	}, nil
}

func validateRequestInput(f types.RequestForm) (*types.BloodRequest, map[string]string) {
	errs := map[string]string{}

	bloodType, err := types.ParseBloodType(f.BloodType)
	if err != nil {
		errs["blood_type"] = "Please select a blood type."
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil || quantity < types.MinRequestQuantity || quantity > types.MaxRequestQuantity {
		errs["quantity"] = "Quantity must be between 1 and 10 units."
	}

	urgency := types.Urgency(strings.ToLower(strings.TrimSpace(f.Urgency)))
	if !urgency.Valid() {
		errs["urgency"] = "Please select an urgency level."
	}

	countryCode, phoneNumber, contactErr := validateContact(f.CountryCode, f.PhoneNumber)
	if contactErr != "" {
		errs["contact"] = contactErr
	}

	email, emailErr := validateEmail(f.Email)
	if emailErr != "" {
		errs["email"] = emailErr
	}

	location := strings.TrimSpace(f.Location)
	if !required(location) {
		errs["location"] = "Please enter the hospital or city location."
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &types.BloodRequest{
		BloodType:   bloodType,
		Quantity:    quantity,
		Urgency:     urgency,
		CountryCode: countryCode,
		PhoneNumber: phoneNumber,
		Email:       email,
		Location:    location,
	}, nil
}

// validateDonationInput returns the history entry for a logged donation.
func validateDonationInput(f types.DonationForm) (string, map[string]string) {
	errs := map[string]string{}

	date, err := time.Parse(donationDateLayout, strings.TrimSpace(f.Date))
	if err != nil {
		errs["donation_date"] = "Please enter the donation date."
	}

	units, err := strconv.Atoi(strings.TrimSpace(f.Units))
	if err != nil || units < 1 {
		errs["donation_units"] = "Please enter at least one unit."
	}

	if len(errs) > 0 {
		return "", errs
	}

	return formatDonationEntry(units, date), nil
}

func formatDonationEntry(units int, date time.Time) string {
	plural := ""
	if units > 1 {
		plural = "s"
	}
	return "Donated " + strconv.Itoa(units) + " unit" + plural + " on " + date.Format(donationDateLayout)
}

func validateContact(countryCode, phoneNumber string) (string, string, string) {
	countryCode = strings.TrimSpace(countryCode)
	phoneNumber = strings.TrimSpace(phoneNumber)

	if !required(countryCode) {
		return "", "", "Please select a country code."
	}

	if !phoneNumberReg.MatchString(phoneNumber) {
		return "", "", "Please enter a valid phone number (8-12 digits)."
	}

	return countryCode, phoneNumber, ""
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}

func validateEmail(email string) (*string, string) {
	trimmed := utils.NullableString(email)
	if trimmed == nil {
		return nil, ""
	}

	if _, err := mail.ParseAddress(*trimmed); err != nil {
		return nil, "Enter a valid email address."
	}

	return trimmed, ""
}

func formFromDonor(d *types.Donor) types.DonorForm {
	return types.DonorForm{
		Name:              d.Name,
		BloodType:         d.BloodType.String(),
		Age:               strconv.Itoa(d.Age),
		CountryCode:       d.CountryCode,
		PhoneNumber:       d.PhoneNumber,
		Email:             utils.PtrString(d.Email),
		Location:          d.Location,
		DonationFrequency: d.DonationFrequency,
		Status:            d.Status,
	}
}
