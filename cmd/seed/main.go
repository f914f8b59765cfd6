// Command seed fills the configured store with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"socialapp/internal/bootstrap"
	"socialapp/internal/config"
	"socialapp/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	maxLikes := flag.Int("likes", 8, "Maximum likes per post")
	maxComments := flag.Int("comments", 4, "Maximum comments per post")
	maxFollows := flag.Int("follows", 6, "Maximum follows per user")
	scenario := flag.String("scenario", "", "YAML scenario file to apply instead of random data")
	randSeed := flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	dryRun := flag.Bool("dry-run", false, "Build data without writing it")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close(ctx) }()

	opts := seed.Options{
		NumUsers:           *numUsers,
		NumPosts:           *numPosts,
		MaxLikesPerPost:    *maxLikes,
		MaxCommentsPerPost: *maxComments,
		MaxFollowsPerUser:  *maxFollows,
		RandSeed:           *randSeed,
		DryRun:             *dryRun,
	}

	var res *seed.Result
	if *scenario != "" {
		sc, err := seed.LoadScenario(*scenario)
		if err != nil {
			log.Fatalf("Invalid scenario: %v", err)
		}
		log.Printf("Applying scenario %q from %s", sc.Name, *scenario)
		res, err = seed.NewFactory(store, opts).ApplyScenario(ctx, sc)
		if err != nil {
			log.Fatalf("Scenario seeding failed: %v", err)
		}
	} else {
		res, err = seed.Seed(ctx, store, opts)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("Seeded %s", res)
	log.Println("Generated users share the password: password123")
}
