package models

// FieldValue is one named note field as shown to the user.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CardView is a new card ready for display. CardID carries the note id.
type CardView struct {
	CardID     string       `json:"cardId"`
	ModelID    int64        `json:"modelId"`
	DeckName   string       `json:"deckName"`
	FrontText  string       `json:"frontText"`
	BackFields []FieldValue `json:"backFields"`
}

// NoteRecord is a note row as read from the provider.
type NoteRecord struct {
	NoteID    int64
	ModelID   int64
	RawFields string
	SortField *string
}
