// Package poll runs one discovery pass: resolve each company's ATS,
// fan out the API fetchers, crawl whatever could not be verified, and
// persist the surviving records.
package poll

import (
	"context"
	"database/sql"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/ats"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/crawl"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/ashby"
	"jobscout-engine/internal/scrape/email"
	"jobscout-engine/internal/scrape/greenhouse"
	"jobscout-engine/internal/scrape/jsearch"
	"jobscout-engine/internal/scrape/lever"
	"jobscout-engine/internal/scrape/types"
	"jobscout-engine/internal/scrape/util"
	"jobscout-engine/internal/scrape/workday"
	"jobscout-engine/internal/secrets"
	"jobscout-engine/internal/store"
)

type Summary struct {
	Companies  int
	Verified   int
	Crawled    int
	Fetched    int
	Added      int
	Resolution map[string]domain.VerifiedEndpoint
}

// RunOnce executes a single batch pass. Per-source failures are logged
// and skipped; only setup errors abort the run.
func RunOnce(ctx context.Context, db *sql.DB, cfg config.Config) (Summary, error) {
	filters := cfg.SearchFilters()
	limiter := util.NewHostLimiter(1.0, 2)
	resolver := ats.NewResolver(ats.NewVerifier(limiter))

	companies := cfg.ActiveCompanies()
	sum := Summary{
		Companies:  len(companies),
		Resolution: make(map[string]domain.VerifiedEndpoint, len(companies)),
	}

	boards := map[domain.BackendType][]types.Board{}
	var unverified []domain.Company

	for _, co := range companies {
		ep, cached, err := store.GetEndpoint(ctx, db, co.Name)
		if err != nil {
			log.Printf("[poll] endpoint cache read company=%q err=%v", co.Name, err)
		}
		if !cached || !ep.Verified {
			rctx, cancel := context.WithTimeout(ctx, 60*time.Second)
			ep = resolver.Resolve(rctx, co.Name, co.CareerURL, co.Backend)
			cancel()
			if err := store.UpsertEndpoint(ctx, db, co.Name, ep); err != nil {
				log.Printf("[poll] endpoint cache write company=%q err=%v", co.Name, err)
			}
		}
		sum.Resolution[co.Name] = ep

		if !ep.Verified {
			unverified = append(unverified, co)
			continue
		}
		sum.Verified++

		b := types.Board{Slug: ep.Slug, Name: co.Name}
		if ep.Backend == domain.BackendWorkday {
			// The workday fetcher wants the full board URL.
			b.Slug = ep.DirectURL
		}
		boards[ep.Backend] = append(boards[ep.Backend], b)
	}

	fetchers := buildFetchers(cfg, boards, limiter)

	var g errgroup.Group
	results := make(chan types.ScrapeResult, len(fetchers))

	for _, f := range fetchers {
		g.Go(func() error {
			timeout := 2 * time.Minute
			switch f.Name() {
			case "greenhouse", "lever", "ashby", "workday":
				timeout = 5 * time.Minute
			}

			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			res, err := f.Fetch(fctx, filters)
			if err != nil {
				log.Printf("[poll] source=%s err=%v", f.Name(), err)
				return nil // best-effort: don't cancel siblings
			}
			results <- res
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	var records []domain.JobRecord
	for res := range results {
		log.Printf("[poll] source=%s records=%d", res.Source, len(res.Records))
		records = append(records, res.Records...)
	}
	sum.Fetched = len(records)

	if len(unverified) > 0 {
		crawled := crawlUnverified(ctx, cfg, unverified, filters)
		sum.Crawled = len(crawled)
		records = append(records, crawled...)
	}

	insertCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	for _, rec := range records {
		added, err := store.InsertJobIgnore(insertCtx, db, rec)
		if err != nil {
			log.Printf("[poll] insert title=%q source_id=%q err=%v", rec.Title, rec.SourceID, err)
			continue
		}
		if added {
			sum.Added++
		}
	}

	log.Printf("[poll] companies=%d verified=%d fetched=%d crawled=%d added=%d",
		sum.Companies, sum.Verified, sum.Fetched, sum.Crawled, sum.Added)
	return sum, nil
}

func buildFetchers(cfg config.Config, boards map[domain.BackendType][]types.Board, limiter *util.HostLimiter) []types.Fetcher {
	var fetchers []types.Fetcher

	if bs := boards[domain.BackendGreenhouse]; len(bs) > 0 {
		fetchers = append(fetchers, greenhouse.New(greenhouse.Config{Boards: bs}, limiter))
	}
	if bs := boards[domain.BackendLever]; len(bs) > 0 {
		fetchers = append(fetchers, lever.New(lever.Config{Boards: bs}, limiter))
	}
	if bs := boards[domain.BackendAshby]; len(bs) > 0 {
		fetchers = append(fetchers, ashby.New(ashby.Config{Boards: bs}, limiter))
	}
	if bs := boards[domain.BackendWorkday]; len(bs) > 0 {
		fetchers = append(fetchers, workday.New(workday.Config{Boards: bs}, limiter))
	}

	if cfg.JSearch.Enabled {
		key, err := secrets.GetRapidAPIKey()
		if err != nil {
			log.Printf("[poll] jsearch disabled: %v", err)
		} else {
			fetchers = append(fetchers, jsearch.New(key))
		}
	}

	if cfg.Email.Enabled {
		pw, err := secrets.GetIMAPPassword(cfg.Email.Username, cfg.Email.IMAPAddr)
		if err != nil {
			log.Printf("[poll] email disabled: %v", err)
		} else {
			fetchers = append(fetchers, email.New(email.Config{
				IMAPAddr: cfg.Email.IMAPAddr,
				Username: cfg.Email.Username,
				Password: pw,
				MaxMsgs:  cfg.Email.MaxMsgs,
			}))
		}
	}

	return fetchers
}

// crawlUnverified walks career pages with a browser, one company at a
// time. Browser startup failure downgrades the run rather than killing
// the already-fetched records.
func crawlUnverified(ctx context.Context, cfg config.Config, companies []domain.Company, filters domain.SearchFilters) []domain.JobRecord {
	engine, err := crawl.NewEngine(cfg.Headless())
	if err != nil {
		log.Printf("[poll] browser launch: %v", err)
		return nil
	}
	defer engine.Close()

	nav, settle, afterSearch, scrollPause, scrolls := cfg.WaitDurations()
	crawler := crawl.New(engine, crawl.Waits{
		NavTimeout:  nav,
		Settle:      settle,
		AfterSearch: afterSearch,
		ScrollPause: scrollPause,
		Scrolls:     scrolls,
	})

	var out []domain.JobRecord
	for _, co := range companies {
		select {
		case <-ctx.Done():
			return out
		default:
		}
		if co.CareerURL == "" {
			continue
		}
		out = append(out, crawler.Crawl(co.Name, co.CareerURL, filters)...)
	}
	return out
}
