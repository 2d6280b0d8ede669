package config

import (
	"errors"
	"fmt"
	"strings"

	"jobscout-engine/internal/domain"
)

var knownBackends = map[string]bool{
	"": true, // unresolved; fixats fills it in
	string(domain.BackendGreenhouse): true,
	string(domain.BackendLever):      true,
	string(domain.BackendAshby):      true,
	string(domain.BackendWorkday):    true,
	string(domain.BackendCustom):     true,
}

func Validate(cfg Config) error {
	var errs []string

	if cfg.Filters.DaysAgo < 0 {
		errs = append(errs, "filters.days_ago must be >= 0")
	}
	if cfg.Filters.Limit < 0 {
		errs = append(errs, "filters.limit must be >= 0")
	}
	switch cfg.Filters.Experience {
	case "", domain.ExperienceEntry, domain.ExperienceMid, domain.ExperienceSenior:
	default:
		errs = append(errs, fmt.Sprintf("filters.experience %q must be entry, mid, or senior", cfg.Filters.Experience))
	}

	if cfg.Waits.Scrolls < 0 {
		errs = append(errs, "waits.scrolls must be >= 0")
	}
	for _, w := range []struct {
		name string
		sec  int
	}{
		{"waits.nav_timeout_seconds", cfg.Waits.NavTimeoutSeconds},
		{"waits.settle_seconds", cfg.Waits.SettleSeconds},
		{"waits.after_search_seconds", cfg.Waits.AfterSearchSeconds},
		{"waits.scroll_pause_seconds", cfg.Waits.ScrollPauseSeconds},
	} {
		if w.sec < 0 {
			errs = append(errs, w.name+" must be >= 0")
		}
	}

	if cfg.Email.Enabled {
		if strings.TrimSpace(cfg.Email.IMAPAddr) == "" {
			errs = append(errs, "email.imap_addr is required when email.enabled=true")
		}
		if strings.TrimSpace(cfg.Email.Username) == "" {
			errs = append(errs, "email.username is required when email.enabled=true")
		}
	}

	seen := map[string]bool{}
	for i, e := range cfg.Companies {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].name is required", i))
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("companies[%d] duplicates name %q", i, name))
		}
		seen[key] = true

		if !knownBackends[e.ATSType] {
			errs = append(errs, fmt.Sprintf("companies[%d].ats_type %q is not a known backend", i, e.ATSType))
		}
		if strings.TrimSpace(e.CareerURL) == "" && e.ATSType == "" {
			errs = append(errs, fmt.Sprintf("companies[%d] needs career_url or ats_type", i))
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
