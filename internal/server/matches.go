package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bloodmatch/internal/match"
	"bloodmatch/pkg/types"
)

type matchSet struct {
	request   *types.BloodRequest
	matches   []*types.DonorMatch
	locations []string
	poolSize  int
}

// loadMatches reads the donor pool fresh and runs the full pipeline for one
// request: candidates first, then the caller's filters on top of them.
func (s *Service) loadMatches(ctx context.Context, requestID string, filters types.MatchFilters) (*matchSet, error) {
	request, err := s.requestRepo.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	donors, err := s.donorRepo.AllDonors(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := match.ComputeCandidates(request, donors)
	if err != nil {
		return nil, err
	}

	return &matchSet{
		request:   request,
		matches:   match.Refine(candidates, filters),
		locations: match.Locations(donors),
		poolSize:  len(donors),
	}, nil
}

func (s *Service) decodeFilters(r *http.Request) (types.MatchFilters, error) {
	var filters types.MatchFilters
	if err := decoder.Decode(&filters, r.URL.Query()); err != nil {
		return filters, err
	}

	filters.BloodType = normalizeBloodTypeFilter(filters.BloodType)
	return filters, nil
}

// normalizeBloodTypeFilter maps a blood type filter to its canonical form. An
// unencoded "+" arrives as a trailing space after query decoding, so "O " reads
// as O+. Values that are not blood types come back trimmed and match nothing.
func normalizeBloodTypeFilter(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if bt, err := types.ParseBloodType(trimmed); err == nil {
		return bt.String()
	}

	if strings.HasSuffix(raw, " ") {
		if bt, err := types.ParseBloodType(trimmed + "+"); err == nil {
			return bt.String()
		}
	}

	return trimmed
}
