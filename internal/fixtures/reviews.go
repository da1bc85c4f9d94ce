// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixtures

import (
	"fmt"
	"strconv"
	"strings"
)

// Review is a customer review of an audiobook.
type Review struct {
	ID       string
	Customer string
	Product  string
	Rating   int // 1-5
	Title    string
	Content  string
	Date     string
	Helpful  int
	Verified bool
	Status   string
}

// Stars renders the rating as filled and empty stars.
func (r Review) Stars() string {
	n := min(max(r.Rating, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

var reviews = []Review{
	{ID: "REV-001", Customer: "John Doe", Product: "The Great Gatsby", Rating: 5, Title: "Absolutely fantastic narration!", Content: "Jake Gyllenhaal's narration brings this classic to life in a way I never expected. His voice perfectly captures the essence of the Jazz Age.", Date: "2024-01-15", Helpful: 23, Verified: true, Status: "Published"},
	{ID: "REV-002", Customer: "Jane Smith", Product: "1984", Rating: 4, Title: "Great book, good narration", Content: "The story is timeless and the narration is solid. Simon Prebble does a good job, though I wish there was more variation in character voices.", Date: "2024-01-14", Helpful: 15, Verified: true, Status: "Published"},
	{ID: "REV-003", Customer: "Bob Johnson", Product: "To Kill a Mockingbird", Rating: 5, Title: "Perfect for a long drive", Content: "Sissy Spacek's southern accent is perfect for this story. Made my 12-hour drive feel like 2 hours. Highly recommend!", Date: "2024-01-13", Helpful: 31, Verified: true, Status: "Published"},
	{ID: "REV-004", Customer: "Alice Brown", Product: "Pride and Prejudice", Rating: 3, Title: "Decent but not exceptional", Content: "The narration is okay, but I've heard better versions. Rosamund Pike does a good job, but the pacing feels a bit slow at times.", Date: "2024-01-12", Helpful: 8, Verified: true, Status: "Published"},
	{ID: "REV-005", Customer: "Charlie Wilson", Product: "The Catcher in the Rye", Rating: 2, Title: "Narrator doesn't fit the character", Content: "Ray Porter's voice is too mature for Holden Caulfield. The character is supposed to be a teenager, but the narrator sounds like a middle-aged man.", Date: "2024-01-11", Helpful: 12, Verified: true, Status: "Published"},
	{ID: "REV-006", Customer: "Diana Prince", Product: "The Hobbit", Rating: 5, Title: "Masterful storytelling", Content: "Rob Inglis is a master narrator. His character voices are distinct and engaging. This is how audiobooks should be done!", Date: "2024-01-10", Helpful: 45, Verified: true, Status: "Published"},
	{ID: "REV-007", Customer: "Eva Martinez", Product: "1984", Rating: 1, Title: "Terrible audio quality", Content: "The audio quality is poor and there are background noises throughout. Very disappointing for the price.", Date: "2024-01-09", Helpful: 3, Verified: false, Status: "Pending"},
	{ID: "REV-008", Customer: "Frank Thompson", Product: "The Great Gatsby", Rating: 4, Title: "Good but could be better", Content: "Overall a good listen, but the narrator's pacing is inconsistent. Some chapters are rushed while others drag on.", Date: "2024-01-08", Helpful: 7, Verified: true, Status: "Published"},
}

// Reviews returns a copy of every review.
func Reviews() []Review {
	out := make([]Review, len(reviews))
	copy(out, reviews)
	return out
}

// SearchReviews matches customer, product, title and content.
func SearchReviews(q string) []Review {
	return Search(reviews, q, func(r Review) []string {
		return []string{r.Customer, r.Product, r.Title, r.Content}
	})
}

// AverageRating returns the mean rating of rows, or 0 for none.
func AverageRating(rows []Review) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rows {
		sum += r.Rating
	}
	return float64(sum) / float64(len(rows))
}

// ReviewStats summarizes rows.
func ReviewStats(rows []Review) []Stat {
	return []Stat{
		{Label: "Total Reviews", Value: strconv.Itoa(len(rows))},
		{Label: "Average Rating", Value: fmt.Sprintf("%.1f", AverageRating(rows))},
		{Label: "5-Star Reviews", Value: strconv.Itoa(count(rows, func(r Review) bool { return r.Rating == 5 }))},
		{Label: "Pending Review", Value: strconv.Itoa(count(rows, func(r Review) bool { return r.Status == "Pending" }))},
	}
}
