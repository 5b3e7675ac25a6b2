package domain

// ResultSet is what a natural-language search returns to the caller.
// Transactions and Documents are never nil; on internal failure Error is set
// and both collections are empty.
type ResultSet struct {
	Query        string         `json:"query"`
	Intent       Intent         `json:"intent,omitempty"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	Transactions []Transaction  `json:"transactions"`
	Documents    []Document     `json:"documents"`
	Explanation  string         `json:"explanation,omitempty"`
	Error        string         `json:"error,omitempty"`
}
