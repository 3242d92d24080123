package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"bloodmatch/internal/utils"
	"bloodmatch/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates
var uiFS embed.FS
var decoder = form.NewDecoder()

// DonorStore is the registration store for donors.
type DonorStore interface {
	AllDonors(ctx context.Context) ([]*types.Donor, error)
	Donor(ctx context.Context, donorID string) (*types.Donor, error)
	DonorByContact(ctx context.Context, countryCode, phoneNumber string) (*types.Donor, error)
	CreateDonor(ctx context.Context, donor *types.Donor) error
	UpdateDonor(ctx context.Context, donorID string, donor *types.Donor) error
	AppendHistory(ctx context.Context, donorID, entry string) error
	CountDonors(ctx context.Context) (int, error)
}

// RequestStore is the append-only blood request log.
type RequestStore interface {
	Request(ctx context.Context, requestID string) (*types.BloodRequest, error)
	CreateRequest(ctx context.Context, request *types.BloodRequest) error
	CountRequests(ctx context.Context) (int, error)
}

type Service struct {
	logger      *logrus.Logger
	config      *types.Config
	donorRepo   DonorStore
	requestRepo RequestStore
	templates   *template.Template

	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	donorRepo DonorStore,
	requestRepo RequestStore,
) (*Service, error) {
	mux := flow.New()

	cookie, err := newSecureCookie(config, logger)
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger:      logger,
		config:      config,
		donorRepo:   donorRepo,
		requestRepo: requestRepo,
		cookie:      cookie,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	// Unmatched paths never reach flow middleware, so the slash redirect
	// wraps the whole mux.
	s.server.Handler = s.StripTrailingSlash(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)
	r.Use(s.LoadCurrentDonor)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/donors/register", s.handleGetDonorRegister, http.MethodGet)
	r.HandleFunc("/donors/register", s.handlePostDonorRegister, http.MethodPost)

	r.HandleFunc("/profile", s.handleGetProfile, http.MethodGet)
	r.HandleFunc("/profile", s.handlePostProfile, http.MethodPost)
	r.HandleFunc("/profile/donations", s.handlePostProfileDonation, http.MethodPost)

	r.HandleFunc("/requests/new", s.handleGetRequestNew, http.MethodGet)
	r.HandleFunc("/requests/new", s.handlePostRequestNew, http.MethodPost)
	r.HandleFunc("/requests/:requestID/matches", s.handleGetMatches, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.JSONContentType)

		r.HandleFunc("/api/requests/:requestID/matches", s.handleGetMatchesJSON, http.MethodGet)
	})
}

func newSecureCookie(config *types.Config, logger *logrus.Logger) (*securecookie.SecureCookie, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie hash key: %w", err)
	}

	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie block key: %w", err)
	}

	if len(hashKey) == 0 {
		logger.Warn("COOKIE_HASH_KEY not set, generating an ephemeral key")
		hashKey = securecookie.GenerateRandomKey(64)
	}

	if len(blockKey) == 0 {
		blockKey = nil
	}

	cookie := securecookie.New(hashKey, blockKey)
	if config.CookieMaxAge > 0 {
		cookie.MaxAge(config.CookieMaxAge)
	}

	return cookie, nil
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"derefOr":     utils.PtrStringOr,
		"frequencies": types.DonationFrequencies,
		"statuses":    types.DonorStatuses,
		"orDefault":   orDefault,
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func orDefault(s, defaultVal string) string {
	if strings.TrimSpace(s) == "" {
		return defaultVal
	}
	return s
}
