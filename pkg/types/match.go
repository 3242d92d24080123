package types

type Proximity string

const (
	ProximityNearby    Proximity = "Nearby"
	ProximityAvailable Proximity = "Available"
)

const (
	ScoreNearby    = 95
	ScoreAvailable = 85
)

// DonorMatch is a candidate donor for a blood request. It is derived on every
// computation and never persisted.
type DonorMatch struct {
	Donor     *Donor    `json:"donor"`
	Proximity Proximity `json:"proximity"`
	Score     int       `json:"score"`
}

// MatchFilters narrows a candidate set. Empty fields do not constrain.
type MatchFilters struct {
	Query     string `form:"q"`
	BloodType string `form:"blood_type"`
	Location  string `form:"location"`
}

func (f MatchFilters) Empty() bool {
	return f.Query == "" && f.BloodType == "" && f.Location == ""
}
