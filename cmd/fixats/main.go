// Command fixats re-resolves every company in companies.yml against the
// known ATS backends, prints the corrections, and rewrites the file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"jobscout-engine/internal/ats"
	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/scrape/util"
)

func main() {
	log.SetFlags(0)

	var (
		cfgPath = flag.String("config", "config/companies.yml", "path to companies.yml")
		dryRun  = flag.Bool("dry-run", false, "print corrections without rewriting the file")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	resolver := ats.NewResolver(ats.NewVerifier(util.NewHostLimiter(1.0, 2)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	changed := 0
	for _, e := range cfg.Companies {
		if !e.IsActive() {
			continue
		}

		rctx, rcancel := context.WithTimeout(ctx, 60*time.Second)
		ep := resolver.Resolve(rctx, e.Name, e.CareerURL, domain.BackendType(e.ATSType))
		rcancel()

		if !ep.Verified {
			fmt.Printf("  ?  %-30s unresolved (will use browser crawler)\n", e.Name)
			continue
		}

		if string(ep.Backend) == e.ATSType && ep.DirectURL == e.CareerURL {
			fmt.Printf("  ok %-30s %s slug=%s jobs=%s\n", e.Name, ep.Backend, ep.Slug, countLabel(ep.JobCount))
			continue
		}

		fmt.Printf("  -> %-30s %s slug=%s jobs=%s url=%s\n",
			e.Name, ep.Backend, ep.Slug, countLabel(ep.JobCount), ep.DirectURL)
		if cfg.SetCompanyATS(e.Name, ep.Backend, ep.DirectURL) {
			changed++
		}
	}

	if changed == 0 {
		fmt.Println("no corrections needed")
		return
	}
	if *dryRun {
		fmt.Printf("%d corrections (dry run, file unchanged)\n", changed)
		return
	}

	if err := config.SaveAtomic(*cfgPath, cfg); err != nil {
		log.Fatalf("save config: %v", err)
	}
	fmt.Printf("%d corrections written to %s\n", changed, *cfgPath)
}

func countLabel(n int) string {
	if n == domain.CountUnknown {
		return "?"
	}
	return fmt.Sprintf("%d", n)
}
