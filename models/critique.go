package models

// TradeCritique is a structured review of a closed trade produced by a
// model backend.
type TradeCritique struct {
	Grade       string   `json:"grade"`
	Summary     string   `json:"summary"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
	Provider    string   `json:"provider"`
}
