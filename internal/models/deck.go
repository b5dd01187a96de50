package models

// DeckCounts are the pending counts of a deck.
type DeckCounts struct {
	LearnCount  int `json:"learnCount"`
	ReviewCount int `json:"reviewCount"`
	NewCount    int `json:"newCount"`
}

// DeckSummary is one entry of the deck listing.
type DeckSummary struct {
	DeckID      int64  `json:"deckId"`
	DeckName    string `json:"deckName"`
	NewCount    *int   `json:"newCount"`
	LearnCount  *int   `json:"learnCount"`
	ReviewCount *int   `json:"reviewCount"`
}

// Deck is a deck stored in a collection.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
	Dyn  int    `json:"dyn"`
	Mod  int64  `json:"mod"`
}
