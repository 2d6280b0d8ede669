// Package email pulls job postings out of unread LinkedIn job-alert
// emails over IMAP. Messages are fetched with BODY.PEEK[] and marked
// seen only after their postings are captured.
package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/emersion/go-imap/v2"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
)

type Config struct {
	IMAPAddr string // host:port, e.g. imap.gmail.com:993
	Username string
	Password string
	MaxMsgs  int
}

type Scraper struct {
	cfg Config
}

func New(cfg Config) *Scraper { return &Scraper{cfg: cfg} }

func (s *Scraper) Name() string { return "email" }

func (s *Scraper) Fetch(ctx context.Context, filters domain.SearchFilters) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: "email"}

	c, err := dialAndLogin(ctx, s.cfg.IMAPAddr, s.cfg.Username, s.cfg.Password)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := c.Logout().Wait(); err != nil {
			log.Printf("[email] imap logout: %v", err)
		}
		_ = c.Close()
	}()

	msgs, err := fetchUnseen(ctx, c, s.cfg.MaxMsgs)
	if err != nil {
		return res, fmt.Errorf("fetch unseen: %w", err)
	}

	var processed []imap.UID
	for _, m := range msgs {
		if !isJobAlert(m) {
			continue
		}
		body := htmlBody(m.Raw)
		if body == "" {
			continue
		}

		jobs, err := parseLinkedInAlert(body)
		if err != nil {
			log.Printf("[email] uid=%d parse: %v", m.UID, err)
			continue
		}

		date := m.Date
		for _, j := range jobs {
			if !scrape.MatchesQuery(j.Title, filters.Query) {
				continue
			}
			remote := util.IsRemoteLocation(j.Location)
			if !scrape.PassesRemoteLocation(filters, j.Location, remote) {
				continue
			}
			level := util.InferExperienceLevel(j.Title)
			if !scrape.PassesExperience(filters, level) {
				continue
			}

			sourceID := j.SourceID
			if sourceID == "" {
				sourceID = "email:" + util.HashString("url:"+j.URL)
			}

			rec := domain.JobRecord{
				Title:      j.Title,
				Company:    j.Company,
				Location:   j.Location,
				URL:        j.URL,
				Source:     "email",
				Remote:     remote,
				Experience: level,
				SourceID:   sourceID,
			}
			if !date.IsZero() {
				d := date
				rec.PostedAt = &d
			}
			res.Records = append(res.Records, rec)
		}
		processed = append(processed, m.UID)
	}

	if err := markSeen(c, processed); err != nil {
		log.Printf("[email] mark seen: %v", err)
	}

	log.Printf("[email] messages=%d alerts=%d records=%d", len(msgs), len(processed), len(res.Records))
	return res, nil
}

func isJobAlert(m message) bool {
	from := strings.ToLower(m.From)
	subj := strings.ToLower(m.Subject)
	if !strings.Contains(from, "linkedin") {
		return false
	}
	return strings.Contains(subj, "job") || strings.Contains(subj, "alert") ||
		strings.Contains(subj, "hiring") || strings.Contains(subj, "opportunit")
}
