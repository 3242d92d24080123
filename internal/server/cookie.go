package server

import (
	"net/http"
	"strings"
)

func (s *Service) setDonorCookie(w http.ResponseWriter, donorID string) error {
	encoded, err := s.cookie.Encode(s.config.CookieName, donorID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   s.config.CookieMaxAge,
		HttpOnly: true,
		Secure:   s.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (s *Service) clearDonorCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (s *Service) readDonorCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return "", err
	}

	var donorID string
	if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &donorID); err != nil {
		return "", err
	}

	return strings.TrimSpace(donorID), nil
}
