// Command main fills the database with a fake social network.
package main

import (
	"context"
	"flag"
	"log"

	"outstagram/internal/config"
	"outstagram/internal/database"
	"outstagram/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "Number of accounts to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "Posts per account")
	flag.IntVar(&opts.FollowsPerUser, "follows", opts.FollowsPerUser, "Outgoing follow requests per account")
	flag.Float64Var(&opts.AcceptRate, "accept-rate", opts.AcceptRate, "Share of follow requests that are accepted")
	flag.Int64Var(&opts.Seed, "seed", 0, "Random seed (0 picks one)")
	flag.BoolVar(&opts.FastHash, "fast-hash", false, "Hash the shared password at minimum bcrypt cost")
	shouldClean := flag.Bool("clean", true, "Delete existing data before seeding")
	preset := flag.String("preset", "", "YAML preset file (overrides the count flags)")
	flag.Parse()

	if *preset != "" {
		loaded, err := seed.LoadPresetFile(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset %s: %v", *preset, err)
		}
		opts = loaded
		log.Printf("Applying preset: %s", *preset)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if *shouldClean {
		if err := seed.ClearAll(ctx, db); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	s, err := seed.NewSeeder(db, opts)
	if err != nil {
		log.Fatalf("Invalid seed options: %v", err)
	}
	res, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d follow requests", res.Users, res.Posts, res.FollowRequests)
	log.Printf("All seeded accounts use the password: %s", opts.Password)
}
