// Package match pairs blood requests with registered donors.
//
// Matching is literal: a donor is a candidate only when their blood type
// equals the request's blood type. No transfusion compatibility table is
// applied. Every function here is pure and treats its inputs as read-only.
package match

import (
	"strings"

	"bloodmatch/pkg/types"
)

// ComputeCandidates returns the donors whose blood type equals the request's,
// in the order they appear in donors, each tagged with a proximity label and
// score. An empty donor pool yields an empty slice.
func ComputeCandidates(request *types.BloodRequest, donors []*types.Donor) ([]*types.DonorMatch, error) {
	if request == nil || request.BloodType == "" {
		return nil, types.ErrMissingBloodType
	}

	out := make([]*types.DonorMatch, 0, len(donors))
	for _, donor := range donors {
		if donor == nil || donor.BloodType != request.BloodType {
			continue
		}

		proximity := ProximityOf(donor.Location, request.Location)
		out = append(out, &types.DonorMatch{
			Donor:     donor,
			Proximity: proximity,
			Score:     ScoreFor(proximity),
		})
	}

	return out, nil
}

// ProximityOf compares two free-text locations ignoring case and surrounding
// whitespace. It is not a geographic calculation.
func ProximityOf(donorLocation, requestLocation string) types.Proximity {
	if normalizeLocation(donorLocation) == normalizeLocation(requestLocation) {
		return types.ProximityNearby
	}
	return types.ProximityAvailable
}

// ScoreFor returns the match score shown for a proximity label.
func ScoreFor(p types.Proximity) int {
	if p == types.ProximityNearby {
		return types.ScoreNearby
	}
	return types.ScoreAvailable
}

// Refine narrows an already computed candidate set. The query matches a
// donor's name or location as a case-insensitive substring; the blood type and
// location filters require exact equality. Filters compose with AND. The input
// slice is never modified and the result is never nil.
func Refine(candidates []*types.DonorMatch, filters types.MatchFilters) []*types.DonorMatch {
	query := strings.ToLower(strings.TrimSpace(filters.Query))

	out := make([]*types.DonorMatch, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.Donor == nil {
			continue
		}

		if query != "" &&
			!strings.Contains(strings.ToLower(c.Donor.Name), query) &&
			!strings.Contains(strings.ToLower(c.Donor.Location), query) {
			continue
		}

		if filters.BloodType != "" && string(c.Donor.BloodType) != filters.BloodType {
			continue
		}

		if filters.Location != "" && c.Donor.Location != filters.Location {
			continue
		}

		out = append(out, c)
	}

	return out
}

// Locations lists the distinct, non-empty donor locations in first-seen order.
func Locations(donors []*types.Donor) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, donor := range donors {
		if donor == nil || donor.Location == "" || seen[donor.Location] {
			continue
		}
		seen[donor.Location] = true
		out = append(out, donor.Location)
	}
	return out
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
