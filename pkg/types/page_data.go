package types

type NavbarData struct {
	HasProfile bool
	DonorID    string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type StatsData struct {
	DonorCount   int
	RequestCount int
}

type HomePageData struct {
	BasePageData
	Notice string
	Error  string
	Stats  StatsData
}

type FormOptions struct {
	BloodTypes []BloodType
	Urgencies  []Urgency
}

type DonorRegisterPageData struct {
	BasePageData
	FormOptions
	Form        DonorForm
	Error       string
	FieldErrors map[string]string
}

type ProfilePageData struct {
	BasePageData
	FormOptions
	Donor       *Donor
	Form        DonorForm
	Notice      string
	Error       string
	FieldErrors map[string]string
}

type RequestPageData struct {
	BasePageData
	FormOptions
	Form        RequestForm
	Error       string
	FieldErrors map[string]string
}

type MatchesPageData struct {
	BasePageData
	FormOptions
	Request   *BloodRequest
	Matches   []*DonorMatch
	Filters   MatchFilters
	Locations []string
	HasDonors bool
}

type MatchesResponse struct {
	RequestID string        `json:"requestId"`
	Count     int           `json:"count"`
	Matches   []*DonorMatch `json:"matches"`
}
