// Command replay re-runs a saved search from its history link query string
// and prints the matching facilities.
//
// Usage:
//
//	TOMTOM_KEY=... go run ./cmd/replay "address=1+Main+St&radius=2&type=hospital"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/couchcryptid/facility-finder/internal/adapter/tomtom"
	"github.com/couchcryptid/facility-finder/internal/domain"
	"github.com/couchcryptid/facility-finder/internal/observability"
	"github.com/couchcryptid/facility-finder/internal/search"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	limit := flag.Int("limit", 9, "maximum number of results")
	timeout := flag.Duration("timeout", 10*time.Second, "provider request timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one history link query string argument")
	}

	key := os.Getenv("TOMTOM_KEY")
	if key == "" {
		return fmt.Errorf("TOMTOM_KEY is required")
	}

	values, err := url.ParseQuery(flag.Arg(0))
	if err != nil {
		return fmt.Errorf("parse link: %w", err)
	}
	q, err := domain.DecodeQuery(values)
	if err != nil {
		return fmt.Errorf("decode link: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	provider := tomtom.NewClient(key, *timeout, metrics, logger)

	orch := search.NewOrchestrator(
		search.NewAddressResolver(provider, logger),
		search.NewCategoryResolver(provider, metrics, logger),
		provider,
		metrics,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*(*timeout))
	defer cancel()

	outcome := orch.Execute(ctx, search.Input{
		Address:  q.Address,
		RadiusKm: q.RadiusKm,
		Category: q.Category,
		Page:     domain.Page{Limit: *limit},
	})

	if !outcome.Success() {
		return fmt.Errorf("search failed: %s", outcome.Failure)
	}

	fmt.Printf("%d facilities for %q within %g km of %q\n",
		len(outcome.Results), q.Category, q.RadiusKm, q.Address)
	for _, r := range outcome.Results {
		open := ""
		if r.IsOpenNow != nil {
			if *r.IsOpenNow {
				open = " [open now]"
			} else {
				open = " [closed]"
			}
		}
		fmt.Printf("  %-40s %6.0f m  %s%s\n", r.Name, r.DistanceMeters, r.Address, open)
	}
	return nil
}
