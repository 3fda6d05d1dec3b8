package service

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pzaman/portfolio-backend-go/internal/models"
)

// ErrProfileNotFound is returned when no profile file was loaded.
var ErrProfileNotFound = errors.New("profile not found")

const monthLayout = "2006-01"

// ProfileService serves the about-me page from a YAML file loaded at startup.
type ProfileService struct {
	profile *models.Profile
}

// NewProfileService loads the profile at path. A missing file leaves the service
// empty; every other read or parse failure is returned.
func NewProfileService(path string) (*ProfileService, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ProfileService{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &ProfileService{profile: p}, nil
}

// ParseProfile decodes a YAML profile, validates its timeline and orders it by
// start month.
func ParseProfile(data []byte) (*models.Profile, error) {
	var p models.Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	for i := range p.Timeline {
		e := &p.Timeline[i]
		start, err := time.Parse(monthLayout, e.Start)
		if err != nil {
			return nil, fmt.Errorf("timeline %q: invalid start %q", e.Task, e.Start)
		}
		end, err := time.Parse(monthLayout, e.End)
		if err != nil {
			return nil, fmt.Errorf("timeline %q: invalid end %q", e.Task, e.End)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("timeline %q: end %s before start %s", e.Task, e.End, e.Start)
		}
		e.Months = (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	}

	sort.SliceStable(p.Timeline, func(i, j int) bool {
		return p.Timeline[i].Start < p.Timeline[j].Start
	})
	return &p, nil
}

// GetProfile returns the loaded profile.
func (s *ProfileService) GetProfile() (*models.Profile, error) {
	if s.profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.profile, nil
}

// GetTimeline returns the timeline ordered by start month.
func (s *ProfileService) GetTimeline() ([]models.TimelineEntry, error) {
	if s.profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.profile.Timeline, nil
}
