package models

// Profile is the "about me" page content.
type Profile struct {
	Name     string          `yaml:"name" json:"name"`
	Headline string          `yaml:"headline" json:"headline"`
	Summary  string          `yaml:"summary" json:"summary"`
	Links    []ProfileLink   `yaml:"links" json:"links"`
	Timeline []TimelineEntry `yaml:"timeline" json:"timeline"`
}

// ProfileLink is an external profile (GitHub, LinkedIn...).
type ProfileLink struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// TimelineEntry is one bar of the experience timeline. Start and End use "YYYY-MM".
type TimelineEntry struct {
	Task        string `yaml:"task" json:"task"`
	Start       string `yaml:"start" json:"start"`
	End         string `yaml:"end" json:"end"`
	Description string `yaml:"description" json:"description"`
	Months      int    `yaml:"-" json:"months"`
}
