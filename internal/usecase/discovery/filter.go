package discovery

import (
	"strings"

	"github.com/ERSinclair/haven/internal/domain"
)

// StatusAll disables the status predicate.
const StatusAll = "all"

// AgeRange is an inclusive kids-age window.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultAgeWindow derives the viewer's starting window from their own
// kids: two years either side of the youngest and oldest, clamped to
// [0, 18]. Viewers with no listed kids get the full window.
func DefaultAgeWindow(kidsAges []int) AgeRange {
	if len(kidsAges) == 0 {
		return AgeRange{Min: 0, Max: 18}
	}
	min, max := kidsAges[0], kidsAges[0]
	for _, age := range kidsAges[1:] {
		if age < min {
			min = age
		}
		if age > max {
			max = age
		}
	}
	return AgeRange{Min: clampAge(min - 2), Max: clampAge(max + 2)}
}

func clampAge(age int) int {
	if age < 0 {
		return 0
	}
	if age > 18 {
		return 18
	}
	return age
}

// Filter is one configuration of the discovery predicates. All active
// predicates are ANDed; Search matches name, location, or bio (OR within
// itself).
type Filter struct {
	Search   string
	Location string
	AgeRange AgeRange
	Status   string
	Exclude  map[string]struct{}
}

// Feed wraps the loaded candidate list together with the viewer context
// the age predicate needs.
type Feed struct {
	viewer        *domain.Profile
	candidates    []*domain.Profile
	defaultWindow AgeRange
}

func NewFeed(viewer *domain.Profile, candidates []*domain.Profile) *Feed {
	return &Feed{
		viewer:        viewer,
		candidates:    candidates,
		defaultWindow: DefaultAgeWindow(viewer.KidsAges),
	}
}

// DefaultWindow is the starting age window derived from the viewer's kids.
func (f *Feed) DefaultWindow() AgeRange {
	return f.defaultWindow
}

// Candidates returns the unfiltered list in fetch order.
func (f *Feed) Candidates() []*domain.Profile {
	return f.candidates
}

// DefaultFilter is the pass-through configuration the feed opens with.
func (f *Feed) DefaultFilter() Filter {
	return Filter{AgeRange: f.defaultWindow, Status: StatusAll}
}

// Visible computes the filtered subset. Pure over its inputs and stable:
// candidates keep their original relative order, and the result is
// recomputed from scratch on every call so it can never go stale.
func (f *Feed) Visible(filter Filter) []*domain.Profile {
	out := make([]*domain.Profile, 0, len(f.candidates))
	for _, candidate := range f.candidates {
		// Hard exclusions come before every other predicate.
		if _, hidden := filter.Exclude[candidate.ID]; hidden {
			continue
		}
		if !matchesSearch(candidate, filter.Search) {
			continue
		}
		if filter.Location != "" && !containsFold(candidate.LocationName, filter.Location) {
			continue
		}
		if !f.matchesAge(candidate, filter.AgeRange) {
			continue
		}
		if filter.Status != "" && filter.Status != StatusAll && !candidate.HasStatus(filter.Status) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func matchesSearch(candidate *domain.Profile, term string) bool {
	if term == "" {
		return true
	}
	return containsFold(candidate.Name, term) ||
		containsFold(candidate.LocationName, term) ||
		containsFold(candidate.Bio, term)
}

// matchesAge applies the inclusive overlap check. The predicate only
// exists for viewers who listed kids; candidates with no listed ages pass
// while the window is still the viewer's default and drop out once the
// viewer narrows it (missing data is treated permissively until the user
// asks for something stricter).
func (f *Feed) matchesAge(candidate *domain.Profile, window AgeRange) bool {
	if len(f.viewer.KidsAges) == 0 {
		return true
	}
	if len(candidate.KidsAges) == 0 {
		return window == f.defaultWindow
	}
	return candidate.HasKidInRange(window.Min, window.Max)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
