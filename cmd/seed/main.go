// seed resets a running mockabase server and registers the test users.
// Run: go run ./cmd/seed [seedfile.json]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/owenwexler/mockabase/internal/service"
	"github.com/owenwexler/mockabase/pkg/client"
)

// defaultSeedUsers mirror the fixtures the hosted-backend integration suites
// expect to find after a reset.
var defaultSeedUsers = []service.SeedUser{
	{ID: "5b671623-5037-41c4-b944-b7cbb6a94d2f", Email: "owenwexler@mockabase.com", Password: "owexler1"},
	{ID: "9d30e546-2a09-47b0-9e0b-dca7d5f11dd1", Email: "testuser1@mockabase.com", Password: "testuser1"},
	{ID: "1db1f2ed-76bc-4b51-9ecd-dd59f84b221a", Email: "testuser2@mockabase.com", Password: "testuser2"},
}

func main() {
	ctx := context.Background()

	hostURL := os.Getenv("MOCKABASE_URL")
	if hostURL == "" {
		hostURL = "http://localhost:5990"
	}

	users := defaultSeedUsers
	if len(os.Args) > 1 {
		raw, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Fatalf("read seed file: %v", err)
		}
		if err := json.Unmarshal(raw, &users); err != nil {
			log.Fatalf("parse seed file: %v", err)
		}
	}
	for i := range users {
		if users[i].ID == "" {
			users[i].ID = uuid.NewString()
		}
	}

	c := client.New(hostURL)

	if err := c.Clear(ctx); err != nil {
		log.Fatalf("clear users: %v", err)
	}

	seeded, err := c.Seed(ctx, users)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Server:        %s\n", hostURL)
	fmt.Printf("  Users created: %d of %d\n", len(seeded), len(users))
	fmt.Println()
	for _, u := range seeded {
		fmt.Printf("    %s  %s\n", u.ID, u.Email)
	}
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST %s/login \\\n", hostURL)
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":%q,\"password\":%q}'\n", users[0].Email, users[0].Password)
}
