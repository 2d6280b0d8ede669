package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"jobscout-engine/internal/domain"
)

type CompanyEntry struct {
	Name      string `yaml:"name"`
	CareerURL string `yaml:"career_url"`
	ATSType   string `yaml:"ats_type,omitempty"`
	Active    *bool  `yaml:"active,omitempty"` // nil means active
}

func (c CompanyEntry) IsActive() bool { return c.Active == nil || *c.Active }

type Config struct {
	App struct {
		DataDir  string `yaml:"data_dir"`
		Headless *bool  `yaml:"headless,omitempty"` // nil means headless
	} `yaml:"app"`

	Filters struct {
		Query      string `yaml:"query"`
		Location   string `yaml:"location"`
		RemoteOnly bool   `yaml:"remote_only"`
		Experience string `yaml:"experience"`
		DaysAgo    int    `yaml:"days_ago"`
		Limit      int    `yaml:"limit"`
	} `yaml:"filters"`

	Waits struct {
		NavTimeoutSeconds  int `yaml:"nav_timeout_seconds"`
		SettleSeconds      int `yaml:"settle_seconds"`
		AfterSearchSeconds int `yaml:"after_search_seconds"`
		ScrollPauseSeconds int `yaml:"scroll_pause_seconds"`
		Scrolls            int `yaml:"scrolls"`
	} `yaml:"waits"`

	Email struct {
		Enabled  bool   `yaml:"enabled"`
		IMAPAddr string `yaml:"imap_addr"` // host:port
		Username string `yaml:"username"`
		MaxMsgs  int    `yaml:"max_messages"`
	} `yaml:"email"`

	JSearch struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"jsearch"`

	Companies []CompanyEntry `yaml:"companies"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) Headless() bool {
	return c.App.Headless == nil || *c.App.Headless
}

func (c Config) SearchFilters() domain.SearchFilters {
	return domain.SearchFilters{
		Query:      c.Filters.Query,
		Location:   c.Filters.Location,
		RemoteOnly: c.Filters.RemoteOnly,
		Experience: c.Filters.Experience,
		DaysAgo:    c.Filters.DaysAgo,
		Limit:      c.Filters.Limit,
	}
}

// WaitDurations returns the crawl pacing knobs. Zero values pass through;
// the crawler substitutes its defaults for them field by field.
func (c Config) WaitDurations() (nav, settle, afterSearch, scrollPause time.Duration, scrolls int) {
	sec := func(n int) time.Duration { return time.Duration(n) * time.Second }
	return sec(c.Waits.NavTimeoutSeconds), sec(c.Waits.SettleSeconds),
		sec(c.Waits.AfterSearchSeconds), sec(c.Waits.ScrollPauseSeconds), c.Waits.Scrolls
}

// ActiveCompanies filters out entries the user has switched off.
func (c Config) ActiveCompanies() []domain.Company {
	out := make([]domain.Company, 0, len(c.Companies))
	for _, e := range c.Companies {
		if !e.IsActive() {
			continue
		}
		out = append(out, domain.Company{
			Name:      e.Name,
			CareerURL: e.CareerURL,
			Backend:   domain.BackendType(e.ATSType),
			Active:    true,
		})
	}
	return out
}

// SetCompanyATS records a resolver correction against the matching
// company entry. Returns false when no entry matches the name.
func (c *Config) SetCompanyATS(name string, backend domain.BackendType, careerURL string) bool {
	for i := range c.Companies {
		if c.Companies[i].Name != name {
			continue
		}
		c.Companies[i].ATSType = string(backend)
		if careerURL != "" {
			c.Companies[i].CareerURL = careerURL
		}
		return true
	}
	return false
}
