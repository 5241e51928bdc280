// Command seed fills a development database with fixture and generated deals.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"dealboard/internal/config"
	"dealboard/internal/database"
	"dealboard/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of generated users")
	numPosts := flag.Int("posts", 40, "Number of generated posts")
	comments := flag.Int("comments", 5, "Maximum comments per post")
	clean := flag.Bool("clean", true, "Delete users, posts, comments and likes before seeding")
	fixtures := flag.String("fixtures", "", "Fixture YAML file (defaults to the embedded fixtures)")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		Users:           *numUsers,
		Posts:           *numPosts,
		CommentsPerPost: *comments,
		Clean:           *clean,
		Seed:            *randSeed,
	}
	if *fixtures != "" {
		opts.FixturesFS = os.DirFS(".")
		opts.FixturesPath = *fixtures
	}

	report, err := seed.NewSeeder(db, opts).Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d posts, %d comments, %d likes",
		report.Users, report.Posts, report.Comments, report.Likes)
}
