package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/hamroaawaz/complaint-server/internal/models"
	"github.com/hamroaawaz/complaint-server/internal/storage"
)

const municipalitiesFile = "municipality.json"

// MunicipalityService is the append-only activity log. It exclusively owns
// the municipalities collection; activities are only ever appended, in
// insertion order.
type MunicipalityService struct {
	mu    sync.Mutex
	store *storage.Store
}

// NewMunicipalityService creates a municipality service over the given store.
func NewMunicipalityService(store *storage.Store) *MunicipalityService {
	return &MunicipalityService{store: store}
}

// List returns a snapshot of all municipality records.
func (s *MunicipalityService) List() ([]models.Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var munis []models.Municipality
	s.store.Load(municipalitiesFile, &munis)
	return munis, nil
}

// Record appends an activity to the named municipality's feed. The key is
// matched case-insensitively against the stored municipality names.
func (s *MunicipalityService) Record(municipalityKey string, activity models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var munis []models.Municipality
	s.store.Load(municipalitiesFile, &munis)

	m := findMunicipality(munis, municipalityKey)
	if m == nil {
		return ErrMunicipalityNotFound
	}
	m.Activities = append(m.Activities, activity)

	if err := s.store.Save(municipalitiesFile, munis); err != nil {
		return dependency("save municipalities", err)
	}
	return nil
}

// AllActivities flattens every municipality's feed into one list, each entry
// tagged with its municipality, sorted by timestamp descending.
func (s *MunicipalityService) AllActivities() ([]models.FeedActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var munis []models.Municipality
	s.store.Load(municipalitiesFile, &munis)

	var feed []models.FeedActivity
	for _, m := range munis {
		for _, a := range m.Activities {
			feed = append(feed, models.FeedActivity{Activity: a, Municipality: m.Municipality})
		}
	}
	sort.Slice(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	return feed, nil
}

// Score folds over the named municipality's activities: 2 points per
// completion, 1 per in-progress action. The score is derived on demand and
// never persisted.
func (s *MunicipalityService) Score(municipalityKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var munis []models.Municipality
	s.store.Load(municipalitiesFile, &munis)

	m := findMunicipality(munis, municipalityKey)
	if m == nil {
		return 0, ErrMunicipalityNotFound
	}
	return scoreActivities(m.Activities), nil
}

// Leaderboard returns every municipality with its derived score, highest
// first.
func (s *MunicipalityService) Leaderboard() ([]models.MunicipalityScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var munis []models.Municipality
	s.store.Load(municipalitiesFile, &munis)

	scores := make([]models.MunicipalityScore, 0, len(munis))
	for _, m := range munis {
		scores = append(scores, models.MunicipalityScore{
			Municipality: m.Municipality,
			City:         m.City,
			Score:        scoreActivities(m.Activities),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores, nil
}

// ActionForStatus is the activity action recorded when a complaint is moved
// to the given status.
func ActionForStatus(status models.Status) string {
	return "Marked as " + string(status)
}

func scoreActivities(activities []models.Activity) int {
	score := 0
	for _, a := range activities {
		switch a.Action {
		case "Marked as completed":
			score += 2
		case "working", "Marked as working":
			score++
		}
	}
	return score
}

func findMunicipality(munis []models.Municipality, key string) *models.Municipality {
	for i := range munis {
		if strings.EqualFold(munis[i].Municipality, key) {
			return &munis[i]
		}
	}
	return nil
}
