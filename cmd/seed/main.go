// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"dawgsocial/internal/config"
	"dawgsocial/internal/database"
	"dawgsocial/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	postsPerUser := flag.Int("posts-per-user", 4, "Posts per user")
	commentsPerPost := flag.Int("comments-per-post", 2, "Comments per post")
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

	opts := seed.DefaultOptions()
	opts.Users = *numUsers
	opts.PostsPerUser = *postsPerUser
	opts.CommentsPerPost = *commentsPerPost

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users (password %q for all accounts)", opts.Users, seed.DefaultPassword)
}
