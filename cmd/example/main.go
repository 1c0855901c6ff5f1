package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	psn "github.com/jamesprial/go-psn-api-wrapper"
	"github.com/jamesprial/go-psn-api-wrapper/internal/logger"
	"github.com/jamesprial/go-psn-api-wrapper/pkg/types"
)

func main() {
	npsso := os.Getenv("PSN_NPSSO")
	if npsso == "" {
		log.Fatal("PSN_NPSSO environment variable is required; copy it from a signed-in playstation.com session")
	}

	zlog := logger.New()

	client, err := psn.NewClient(&psn.Config{
		NpssoToken: npsso,
		Logger:     &zlog,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("Failed to authenticate: %v", err)
	}
	fmt.Println("Successfully authenticated with PSN!")

	me := client.Me()
	onlineID, err := me.OnlineID(ctx)
	if err != nil {
		log.Fatalf("Failed to resolve own online ID: %v", err)
	}
	fmt.Printf("Signed in as: %s\n", onlineID)

	summary, err := me.TrophySummary(ctx)
	if err != nil {
		log.Printf("Failed to get trophy summary: %v", err)
	} else {
		fmt.Printf("Trophy level %d (%d platinums)\n", summary.TrophyLevel, summary.EarnedTrophies.Platinum)
	}

	// Walk the first few trophy titles lazily; each page is fetched on
	// demand as the iterator advances.
	fmt.Println("\nRecently played trophy titles:")
	limit := 5
	titles := me.TrophyTitles(&psn.TrophyTitleOptions{TotalLimit: &limit})
	for {
		title, err := titles.Next(ctx)
		if errors.Is(err, psn.ErrIteratorDone) {
			break
		}
		if err != nil {
			log.Fatalf("Failed to list trophy titles: %v", err)
		}
		fmt.Printf("  %s (%d%%)\n", title.TitleName, title.Progress)
	}

	// Universal search, capped to one page of hits.
	results, err := client.Search("god of war", types.SearchDomainFullGames, &psn.SearchOptions{})
	if err != nil {
		log.Fatalf("Failed to build search: %v", err)
	}
	fmt.Println("\nSearch results for \"god of war\":")
	for i := 0; i < 3; i++ {
		hit, err := results.Next(ctx)
		if errors.Is(err, psn.ErrIteratorDone) {
			break
		}
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		concept, err := hit.GameMetadata()
		if err != nil {
			log.Printf("Skipping undecodable hit %s: %v", hit.ID, err)
			continue
		}
		fmt.Printf("  %s\n", concept.InvariantName)
	}
}
