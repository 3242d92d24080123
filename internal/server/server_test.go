package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"bloodmatch/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDonorStore struct {
	mu     sync.Mutex
	donors []*types.Donor
	nextID int
}

func (m *memDonorStore) AllDonors(_ context.Context) ([]*types.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Donor, 0, len(m.donors))
	for _, d := range m.donors {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memDonorStore) Donor(_ context.Context, donorID string) (*types.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.donors {
		if d.ID == donorID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, types.ErrDonorNotFound
}

func (m *memDonorStore) DonorByContact(_ context.Context, countryCode, phoneNumber string) (*types.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.donors {
		if d.CountryCode == countryCode && d.PhoneNumber == phoneNumber {
			cp := *d
			return &cp, nil
		}
	}
	return nil, types.ErrDonorNotFound
}

func (m *memDonorStore) CreateDonor(_ context.Context, donor *types.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	donor.ID = fmt.Sprintf("donor-%d", m.nextID)
	donor.CreatedAt = time.Now()
	if donor.Status == "" {
		donor.Status = types.DefaultDonorStatus
	}
	if donor.History == nil {
		donor.History = []string{}
	}
	cp := *donor
	m.donors = append(m.donors, &cp)
	return nil
}

func (m *memDonorStore) UpdateDonor(_ context.Context, donorID string, donor *types.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.donors {
		if d.ID == donorID {
			cp := *donor
			cp.ID = donorID
			cp.History = d.History
			cp.CreatedAt = d.CreatedAt
			m.donors[i] = &cp
			return nil
		}
	}
	return types.ErrDonorNotFound
}

func (m *memDonorStore) AppendHistory(_ context.Context, donorID, entry string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.donors {
		if d.ID == donorID {
			d.History = append(d.History, entry)
			return nil
		}
	}
	return types.ErrDonorNotFound
}

func (m *memDonorStore) CountDonors(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.donors), nil
}

type memRequestStore struct {
	mu       sync.Mutex
	requests []*types.BloodRequest
}

func (m *memRequestStore) Request(_ context.Context, requestID string) (*types.BloodRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.requests {
		if r.ID == requestID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, types.ErrRequestNotFound
}

func (m *memRequestStore) CreateRequest(_ context.Context, request *types.BloodRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	request.ID = fmt.Sprintf("request-%d", len(m.requests)+1)
	request.CreatedAt = time.Now()
	cp := *request
	m.requests = append(m.requests, &cp)
	return nil
}

func (m *memRequestStore) CountRequests(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests), nil
}

type testEnv struct {
	svc      *Service
	donors   *memDonorStore
	requests *memRequestStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		Environment:     "test",
		ServerPort:      0,
		ReadTimeoutSec:  10,
		WriteTimeoutSec: 15,
		CookieName:      "donor_id",
		CookieMaxAge:    3600,
	}

	env := &testEnv{
		donors:   &memDonorStore{},
		requests: &memRequestStore{},
	}

	svc, err := New(config, logger, env.donors, env.requests)
	require.NoError(t, err)
	env.svc = svc

	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.svc.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(t, req)
}

func (e *testEnv) postForm(t *testing.T, target string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(t, req)
}

func (e *testEnv) seedDonor(t *testing.T, name string, bloodType types.BloodType, location, phone string) *types.Donor {
	t.Helper()
	donor := &types.Donor{
		Name:              name,
		BloodType:         bloodType,
		Age:               30,
		CountryCode:       "+234",
		PhoneNumber:       phone,
		Location:          location,
		DonationFrequency: "Every 6 months",
	}
	require.NoError(t, e.donors.CreateDonor(context.Background(), donor))
	return donor
}

func (e *testEnv) seedRequest(t *testing.T, bloodType types.BloodType, location string) *types.BloodRequest {
	t.Helper()
	request := &types.BloodRequest{
		BloodType:   bloodType,
		Quantity:    2,
		Urgency:     types.UrgencyHigh,
		CountryCode: "+234",
		PhoneNumber: "8099999999",
		Location:    location,
	}
	require.NoError(t, e.requests.CreateRequest(context.Background(), request))
	return request
}

func donorCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "donor_id" && c.MaxAge >= 0 {
			return c
		}
	}
	t.Fatalf("no donor cookie in response")
	return nil
}

func validDonorForm() url.Values {
	return url.Values{
		"name":               {"Ada Obi"},
		"blood_type":         {"O+"},
		"age":                {"29"},
		"country_code":       {"+234"},
		"phone_number":       {"8031234567"},
		"email":              {"ada@example.com"},
		"location":           {"Lagos"},
		"donation_frequency": {"Every 3 months"},
	}
}

func TestHomeShowsCounts(t *testing.T) {
	env := newTestEnv(t)
	env.seedDonor(t, "Ada", types.BloodTypeOPos, "Lagos", "8031234567")
	env.seedDonor(t, "Bo", types.BloodTypeOPos, "Abuja", "8031234568")
	env.seedRequest(t, types.BloodTypeOPos, "Lagos")

	rec := env.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span id="donorCount">2</span>`)
	assert.Contains(t, rec.Body.String(), `<span id="requestCount">1</span>`)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestStripTrailingSlash(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/requests/new/?x=1")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/requests/new?x=1", rec.Header().Get("Location"))
}

func TestRegisterDonor(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/donors/register")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="donorForm"`)

	rec = env.postForm(t, "/donors/register", validDonorForm())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/profile?notice="))

	require.Len(t, env.donors.donors, 1)
	stored := env.donors.donors[0]
	assert.Equal(t, "Ada Obi", stored.Name)
	assert.Equal(t, types.BloodTypeOPos, stored.BloodType)
	assert.Equal(t, 29, stored.Age)
	assert.Equal(t, types.DefaultDonorStatus, stored.Status)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "ada@example.com", *stored.Email)

	cookie := donorCookie(t, rec)
	rec = env.get(t, "/profile", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ada Obi")
	assert.Contains(t, body, "&#43;2348031234567")
	assert.Contains(t, body, "<li>No donations yet</li>")
	assert.Contains(t, body, `href="/profile"`)
}

func TestRegisterDonor_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	form := validDonorForm()
	form.Set("phone_number", "12ab")
	form.Set("age", "17")
	form.Set("location", "Lagos 1")
	form.Set("blood_type", "Z+")

	rec := env.postForm(t, "/donors/register", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Please fix the errors above before proceeding.")
	assert.Contains(t, body, "Please enter a valid phone number (8-12 digits).")
	assert.Contains(t, body, "Age must be between 18 and 65.")
	assert.Contains(t, body, "Please enter a valid city name.")
	assert.Contains(t, body, "Please select a blood type.")
	assert.Contains(t, body, `value="Ada Obi"`)
	assert.Empty(t, env.donors.donors)
}

func TestProfileWithoutDonor(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="noProfile"`)

	rec = env.postForm(t, "/profile/donations", url.Values{"donation_date": {"2024-05-01"}, "donation_units": {"1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/donors/register", rec.Header().Get("Location"))
}

func TestProfileWithTamperedCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/profile", &http.Cookie{Name: "donor_id", Value: "not-a-signed-value"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="noProfile"`)
}

func TestProfileEditKeepsHistory(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/donors/register", validDonorForm())
	cookie := donorCookie(t, rec)
	donorID := env.donors.donors[0].ID

	rec = env.postForm(t, "/profile/donations", url.Values{"donation_date": {"2024-05-01"}, "donation_units": {"2"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	edit := validDonorForm()
	edit.Set("name", "Ada N. Obi")
	edit.Set("location", "Abuja")
	edit.Set("email", "")
	edit.Set("status", "Inactive")
	edit.Del("age")

	rec = env.postForm(t, "/profile", edit, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	stored, err := env.donors.Donor(context.Background(), donorID)
	require.NoError(t, err)
	assert.Equal(t, "Ada N. Obi", stored.Name)
	assert.Equal(t, "Abuja", stored.Location)
	assert.Equal(t, "Inactive", stored.Status)
	assert.Equal(t, 29, stored.Age)
	assert.Nil(t, stored.Email)
	assert.Equal(t, []string{"Donated 2 units on 2024-05-01"}, stored.History)

	rec = env.get(t, "/profile", cookie)
	body := rec.Body.String()
	assert.Contains(t, body, "<li>Donated 2 units on 2024-05-01</li>")
	assert.Contains(t, body, "Not provided")
}

func TestProfileEditMergesIntoExistingContact(t *testing.T) {
	env := newTestEnv(t)
	existing := env.seedDonor(t, "Old Ada", types.BloodTypeOPos, "Lagos", "8000000001")

	rec := env.postForm(t, "/donors/register", validDonorForm())
	cookie := donorCookie(t, rec)
	currentID := env.donors.donors[1].ID

	edit := validDonorForm()
	edit.Set("phone_number", "8000000001")
	edit.Set("name", "Ada Merged")

	rec = env.postForm(t, "/profile", edit, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	merged, err := env.donors.Donor(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Merged", merged.Name)

	untouched, err := env.donors.Donor(context.Background(), currentID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", untouched.Name)

	newCookie := donorCookie(t, rec)
	rec = env.get(t, "/profile", newCookie)
	assert.Contains(t, rec.Body.String(), "Ada Merged")
}

func TestProfileEditValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/donors/register", validDonorForm())
	cookie := donorCookie(t, rec)

	edit := validDonorForm()
	edit.Set("email", "not-an-email")

	rec = env.postForm(t, "/profile", edit, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address.")
}

func TestAddDonationValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/donors/register", validDonorForm())
	cookie := donorCookie(t, rec)

	rec = env.postForm(t, "/profile/donations", url.Values{"donation_date": {"yesterday"}, "donation_units": {"0"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/profile?error="))
	assert.Empty(t, env.donors.donors[0].History)
}

func TestSubmitRequestAndViewMatches(t *testing.T) {
	env := newTestEnv(t)
	env.seedDonor(t, "Ada", types.BloodTypeOPos, "Lagos", "8031234567")
	env.seedDonor(t, "Chidi", types.BloodTypeANeg, "Lagos", "8031234569")
	env.seedDonor(t, "Bo", types.BloodTypeOPos, "Abuja", "8031234568")

	rec := env.postForm(t, "/requests/new", url.Values{
		"blood_type":   {"O+"},
		"quantity":     {"3"},
		"urgency":      {"high"},
		"country_code": {"+234"},
		"phone_number": {"8099999999"},
		"location":     {"LAGOS"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, env.requests.requests, 1)
	assert.Equal(t, "/requests/request-1/matches", rec.Header().Get("Location"))

	rec = env.get(t, "/requests/request-1/matches")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	ada := strings.Index(body, "<h3>Ada - O&#43;</h3>")
	bo := strings.Index(body, "<h3>Bo - O&#43;</h3>")
	require.NotEqual(t, -1, ada)
	require.NotEqual(t, -1, bo)
	assert.Less(t, ada, bo)
	assert.NotContains(t, body, "Chidi")
	assert.Contains(t, body, "Location: Lagos (Nearby)")
	assert.Contains(t, body, "Match Score: 95%")
	assert.Contains(t, body, "Location: Abuja (Available)")
	assert.Contains(t, body, "Match Score: 85%")
	assert.Contains(t, body, `<option value="Abuja">Abuja</option>`)

	assert.NotContains(t, body, `id="clearFilters"`)

	rec = env.get(t, "/requests/request-1/matches?blood_type=A-")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No matching donors found.")
	assert.Contains(t, rec.Body.String(), `id="clearFilters"`)
}

func TestSubmitRequest_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/requests/new", url.Values{
		"blood_type":   {"O+"},
		"quantity":     {"11"},
		"urgency":      {"whenever"},
		"country_code": {"+234"},
		"phone_number": {"8099999999"},
		"location":     {"Lagos"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quantity must be between 1 and 10 units.")
	assert.Contains(t, rec.Body.String(), "Please select an urgency level.")
	assert.Empty(t, env.requests.requests)
}

func TestMatchesJSON(t *testing.T) {
	env := newTestEnv(t)
	env.seedDonor(t, "Ada", types.BloodTypeOPos, "Lagos", "8031234567")
	env.seedDonor(t, "Bo", types.BloodTypeOPos, "Abuja", "8031234568")
	request := env.seedRequest(t, types.BloodTypeOPos, "Lagos")

	decode := func(rec *httptest.ResponseRecorder) types.MatchesResponse {
		t.Helper()
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		var resp types.MatchesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	resp := decode(env.get(t, "/api/requests/"+request.ID+"/matches"))
	assert.Equal(t, request.ID, resp.RequestID)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "Ada", resp.Matches[0].Donor.Name)
	assert.Equal(t, types.ProximityNearby, resp.Matches[0].Proximity)
	assert.Equal(t, 95, resp.Matches[0].Score)
	assert.Equal(t, "Bo", resp.Matches[1].Donor.Name)
	assert.Equal(t, types.ProximityAvailable, resp.Matches[1].Proximity)
	assert.Equal(t, 85, resp.Matches[1].Score)

	resp = decode(env.get(t, "/api/requests/"+request.ID+"/matches?q=ad"))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Ada", resp.Matches[0].Donor.Name)

	rec := env.get(t, "/api/requests/"+request.ID+"/matches?blood_type=A-")
	resp = decode(rec)
	assert.Equal(t, 0, resp.Count)
	require.NotNil(t, resp.Matches)
	assert.Contains(t, rec.Body.String(), `"matches":[]`)
}

func TestMatchesJSON_BloodTypeFilter(t *testing.T) {
	env := newTestEnv(t)
	env.seedDonor(t, "Ada", types.BloodTypeABPos, "Lagos", "8031234567")
	env.seedDonor(t, "Bo", types.BloodTypeABPos, "Abuja", "8031234568")
	request := env.seedRequest(t, types.BloodTypeABPos, "Lagos")

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"encoded plus", "blood_type=AB%2B", 2},
		{"unencoded plus", "blood_type=AB+", 2},
		{"lower case", "blood_type=ab%2B", 2},
		{"other type", "blood_type=AB-", 0},
		{"unknown type", "blood_type=Z", 0},
		{"combined with query", "q=bo&blood_type=AB+", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(t, "/api/requests/"+request.ID+"/matches?"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp types.MatchesResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Count)
		})
	}
}

func TestMatchesUnknownRequest(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/requests/nope/matches")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.get(t, "/api/requests/nope/matches")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"request not found"}`, rec.Body.String())
}

func TestMatchesWithEmptyDonorPool(t *testing.T) {
	env := newTestEnv(t)
	request := env.seedRequest(t, types.BloodTypeONeg, "Kano")

	rec := env.get(t, "/requests/"+request.ID+"/matches")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No matching donors found. Register more donors or adjust filters.")
}
