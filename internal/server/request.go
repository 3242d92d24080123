package server

import (
	"fmt"
	"net/http"

	"bloodmatch/pkg/types"
)

func (s *Service) handleGetRequestNew(w http.ResponseWriter, r *http.Request) {
	data := &types.RequestPageData{
		BasePageData: types.BasePageData{Title: "Request Blood"},
		FormOptions:  formOptions(),
		Form:         types.RequestForm{Quantity: "1"},
	}

	if err := s.renderTemplate(w, r, "page.request.new", data); err != nil {
		s.logger.WithError(err).Error("failed to render request page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostRequestNew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var f types.RequestForm
	if err := decoder.Decode(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode request form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	request, fieldErrs := validateRequestInput(f)
	if len(fieldErrs) > 0 {
		s.logger.WithField("field_errors", fieldErrs).Info("validation errors during blood request")

		data := &types.RequestPageData{
			BasePageData: types.BasePageData{Title: "Request Blood"},
			FormOptions:  formOptions(),
			Form:         f,
			Error:        "Please fix the errors above before proceeding.",
			FieldErrors:  fieldErrs,
		}
		if err := s.renderTemplateStatus(w, r, http.StatusUnprocessableEntity, "page.request.new", data); err != nil {
			s.logger.WithError(err).Error("failed to render request page with validation errors")
			s.internalServerError(w)
		}
		return
	}

	if err := s.requestRepo.CreateRequest(ctx, request); err != nil {
		s.logger.WithError(err).Error("failed to create blood request in datastore")
		s.internalServerError(w)
		return
	}

	s.logger.WithField("request_id", request.ID).WithField("blood_type", request.BloodType).Info("blood request submitted")

	http.Redirect(w, r, fmt.Sprintf("/requests/%s/matches", request.ID), http.StatusSeeOther)
}
