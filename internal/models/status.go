package models

// Status reports whether the provider can be used.
type Status struct {
	Installed          bool    `json:"installed"`
	ProviderVisible    bool    `json:"providerVisible"`
	ProviderAccessible bool    `json:"providerAccessible"`
	LastErrorCode      *string `json:"lastErrorCode"`
	LastErrorMessage   *string `json:"lastErrorMessage"`
}

// Append outcomes.
const (
	AppendUpdated = "updated"
	AppendSkipped = "skipped"

	ReasonMarkerPresent = "MARKER_PRESENT"
)

// DefaultMarker is appended after generated text to detect earlier appends.
const DefaultMarker = "1122"

// AppendRequest describes a single-field append.
type AppendRequest struct {
	NoteID         int64  `json:"noteId"`
	ModelID        int64  `json:"modelId"`
	TargetFieldKey string `json:"targetFieldKey"`
	GeneratedText  string `json:"generatedText"`
	Marker         string `json:"marker,omitempty"`
}

// AppendResult is the outcome of an append.
type AppendResult struct {
	Status   string `json:"status"`
	NewValue string `json:"newValue"`
	Reason   string `json:"reason,omitempty"`
}
