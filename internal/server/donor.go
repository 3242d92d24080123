package server

import (
	"net/http"

	"bloodmatch/pkg/types"
)

func (s *Service) handleGetDonorRegister(w http.ResponseWriter, r *http.Request) {
	data := &types.DonorRegisterPageData{
		BasePageData: types.BasePageData{Title: "Become a Donor"},
		FormOptions:  formOptions(),
	}

	if err := s.renderTemplate(w, r, "page.donor.register", data); err != nil {
		s.logger.WithError(err).Error("failed to render donor register page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostDonorRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var f types.DonorForm
	if err := decoder.Decode(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode donor form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	donor, fieldErrs := validateDonorInput(f, true)
	if len(fieldErrs) > 0 {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during donor registration")

		data := &types.DonorRegisterPageData{
			BasePageData: types.BasePageData{Title: "Become a Donor"},
			FormOptions:  formOptions(),
			Form:         f,
			Error:        "Please fix the errors above before proceeding.",
			FieldErrors:  fieldErrs,
		}

		if err := s.renderTemplateStatus(w, r, http.StatusUnprocessableEntity, "page.donor.register", data); err != nil {
			s.logger.WithError(err).Error("failed to render donor register page with validation errors")
			s.internalServerError(w)
		}
		return
	}

	if err := s.donorRepo.CreateDonor(ctx, donor); err != nil {
		s.logger.WithError(err).Error("failed to create donor in datastore")
		s.internalServerError(w)
		return
	}

	if err := s.setDonorCookie(w, donor.ID); err != nil {
		s.logger.WithError(err).WithField("donor_id", donor.ID).Error("failed to set donor cookie")
	}

	s.logger.WithField("donor_id", donor.ID).Info("donor registered")

	s.redirectWithNotice(w, r, "/profile", "Donor registration successful!")
}
