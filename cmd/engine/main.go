package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/poll"
	"jobscout-engine/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	var (
		dataDir = flag.String("data-dir", defaultDataDir(), "directory for the database and user config")
		cfgPath = flag.String("config", "", "path to companies.yml (default: <data-dir>/companies.yml)")
	)
	flag.Parse()

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	path := *cfgPath
	if path == "" {
		var err error
		path, err = config.EnsureUserConfig(*dataDir, filepath.Join("config", "companies.yml"))
		if err != nil {
			log.Fatalf("config bootstrap failed: %v", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("%v", err)
	}

	db, err := store.Open(filepath.Join(*dataDir, "jobscout.db"))
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatalf("migrate db: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := poll.RunOnce(ctx, db.Pool, cfg)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	log.Printf("done: %d new jobs from %d companies (%d verified, %d via crawler)",
		sum.Added, sum.Companies, sum.Verified, sum.Crawled)
}

func defaultDataDir() string {
	if dir := os.Getenv("JOBSCOUT_DATA_DIR"); dir != "" {
		return dir
	}
	return "."
}
