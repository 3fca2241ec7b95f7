package domain

// Destination is a place posts can be written about.
type Destination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Country     string    `json:"country"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category,omitempty"`
	Continent   string    `json:"continent,omitempty"`
	BestSeason  string    `json:"best_season,omitempty"`
	Highlights  []string  `json:"highlights,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedDate Timestamp `json:"created_date,omitzero"`
}
