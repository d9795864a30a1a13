package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gift-exchange/internal/model"

	"gopkg.in/yaml.v3"
)

// Writes a gzipped sample roster for exercising the .gz loader and S3 uploads.
// Couples exclude each other on both sides.
func main() {
	out := flag.String("out", "data/sample-roster.yaml.gz", "output path")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	couples := [][2]model.Participant{
		{{ID: "alice", Name: "Alice"}, {ID: "bob", Name: "Bob"}},
		{{ID: "carol", Name: "Carol"}, {ID: "dave", Name: "Dave"}},
		{{ID: "erin", Name: "Erin"}, {ID: "frank", Name: "Frank"}},
	}
	singles := []model.Participant{
		{ID: "grace", Name: "Grace"},
		{ID: "heidi", Name: "Heidi"},
	}

	roster := model.Roster{Wishlists: map[string]model.Wishlist{}}
	for _, c := range couples {
		a, b := c[0], c[1]
		a.Exclusions = []string{b.ID}
		b.Exclusions = []string{a.ID}
		roster.Participants = append(roster.Participants, a, b)
	}
	for _, p := range singles {
		p.Exclusions = []string{}
		roster.Participants = append(roster.Participants, p)
	}
	for _, p := range roster.Participants {
		roster.Wishlists[p.ID] = model.Wishlist{
			Ideas: []string{p.Name + "'s favourite book"},
			Links: []string{"https://example.com/" + p.ID},
		}
	}

	if err := writeRoster(*out, &roster); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d participants\n", *out, len(roster.Participants))
	fmt.Println("\nExcluded pairs:")
	for _, c := range couples {
		fmt.Printf("  - %s <-> %s\n", c[0].Name, c[1].Name)
	}
}

func writeRoster(path string, roster *model.Roster) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := yaml.NewEncoder(gzipWriter)
	encoder.SetIndent(2)
	if err := encoder.Encode(roster); err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	return encoder.Close()
}
