package models

// NoteModel is a note type: the ordered field schema notes refer to.
type NoteModel struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Fields []ModelField `json:"flds"`
	Type   int          `json:"type"`
	Mod    int64        `json:"mod"`
	DeckID int64        `json:"did"`
}

// ModelField is one field definition of a NoteModel.
type ModelField struct {
	Name string `json:"name"`
	Ord  int    `json:"ord"`
}

// FieldNames returns the field names in ordinal order.
func (m NoteModel) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		if f.Ord >= 0 && f.Ord < len(names) {
			names[f.Ord] = f.Name
		} else {
			names[i] = f.Name
		}
	}
	return names
}

// Note is a row of the notes table.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	Tags    string
	Fields  string
	SortFld string
	Csum    int64
}

// Card is a row of the cards table.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Ord    int
	Mod    int64
	Type   int
	Queue  int
	Due    int64
}

// Card queue and type values.
const (
	CardTypeNew      = 0
	CardTypeLearning = 1
	CardTypeReview   = 2

	QueueNew         = 0
	QueueLearning    = 1
	QueueReview      = 2
	QueueDayLearning = 3
	QueueSuspended   = -1
)
