package server

import (
	"errors"
	"net/http"
	"strings"

	"bloodmatch/pkg/types"
)

// currentDonor loads the donor named by the cookie. A missing or stale cookie
// yields a nil donor and no error.
func (s *Service) currentDonor(w http.ResponseWriter, r *http.Request) (*types.Donor, error) {
	donorID := donorIDFromContext(r.Context())
	if donorID == "" {
		return nil, nil
	}

	donor, err := s.donorRepo.Donor(r.Context(), donorID)
	if err != nil {
		if errors.Is(err, types.ErrDonorNotFound) {
			s.clearDonorCookie(w)
			return nil, nil
		}
		return nil, err
	}

	return donor, nil
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	donor, err := s.currentDonor(w, r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load current donor")
		s.internalServerError(w)
		return
	}

	if donor == nil {
		data := &types.ProfilePageData{
			BasePageData: types.BasePageData{Title: "My Profile"},
		}
		if err := s.renderTemplate(w, r, "page.profile.empty", data); err != nil {
			s.logger.WithError(err).Error("failed to render empty profile page")
			s.internalServerError(w)
		}
		return
	}

	data := &types.ProfilePageData{
		BasePageData: types.BasePageData{Title: "My Profile"},
		FormOptions:  formOptions(),
		Donor:        donor,
		Form:         formFromDonor(donor),
		Notice:       strings.TrimSpace(r.URL.Query().Get("notice")),
		Error:        strings.TrimSpace(r.URL.Query().Get("error")),
	}

	if err := s.renderTemplate(w, r, "page.profile", data); err != nil {
		s.logger.WithError(err).Error("failed to render profile page")
		s.internalServerError(w)
		return
	}
}

// handlePostProfile overwrites the current donor's profile. When the edited
// contact details already belong to another donor record, that record is the
// one overwritten and it becomes the current donor.
func (s *Service) handlePostProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	current, err := s.currentDonor(w, r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load current donor")
		s.internalServerError(w)
		return
	}

	if current == nil {
		http.Redirect(w, r, "/donors/register", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var f types.DonorForm
	if err := decoder.Decode(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode profile form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	updated, fieldErrs := validateDonorInput(f, false)
	if len(fieldErrs) > 0 {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during profile edit")

		data := &types.ProfilePageData{
			BasePageData: types.BasePageData{Title: "My Profile"},
			FormOptions:  formOptions(),
			Donor:        current,
			Form:         f,
			Error:        "Please fix the errors above before saving.",
			FieldErrors:  fieldErrs,
		}
		if err := s.renderTemplateStatus(w, r, http.StatusUnprocessableEntity, "page.profile", data); err != nil {
			s.logger.WithError(err).Error("failed to render profile page with validation errors")
			s.internalServerError(w)
		}
		return
	}

	targetID := current.ID
	updated.Age = current.Age

	existing, err := s.donorRepo.DonorByContact(ctx, updated.CountryCode, updated.PhoneNumber)
	switch {
	case err == nil && existing.ID != current.ID:
		targetID = existing.ID
		updated.Age = existing.Age
	case err != nil && !errors.Is(err, types.ErrDonorNotFound):
		s.logger.WithError(err).WithField("donor_id", current.ID).Error("failed to look up donor by contact")
		s.internalServerError(w)
		return
	}

	if err := s.donorRepo.UpdateDonor(ctx, targetID, updated); err != nil {
		s.logger.WithError(err).WithField("donor_id", targetID).Error("failed to update donor profile")
		s.internalServerError(w)
		return
	}

	if targetID != current.ID {
		s.logger.WithField("from_donor_id", current.ID).WithField("to_donor_id", targetID).Info("profile edit merged into existing donor")
		if err := s.setDonorCookie(w, targetID); err != nil {
			s.logger.WithError(err).WithField("donor_id", targetID).Error("failed to set donor cookie")
		}
	}

	s.redirectWithNotice(w, r, "/profile", "Profile updated successfully!")
}

func (s *Service) handlePostProfileDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	current, err := s.currentDonor(w, r)
	if err != nil {
		s.logger.WithError(err).Error("failed to load current donor")
		s.internalServerError(w)
		return
	}

	if current == nil {
		http.Redirect(w, r, "/donors/register", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var f types.DonationForm
	if err := decoder.Decode(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode donation form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	entry, fieldErrs := validateDonationInput(f)
	if len(fieldErrs) > 0 {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during donation add")
		s.redirectWithError(w, r, "/profile", "Please enter a donation date and at least one unit.")
		return
	}

	if err := s.donorRepo.AppendHistory(ctx, current.ID, entry); err != nil {
		s.logger.WithError(err).WithField("donor_id", current.ID).Error("failed to append donation history")
		s.internalServerError(w)
		return
	}

	s.logger.WithField("donor_id", current.ID).WithField("entry", entry).Info("donation added")

	s.redirectWithNotice(w, r, "/profile", "Donation added!")
}
