package models

// HeaderContract maps each logical field to the exact, case-sensitive column
// header the upstream spreadsheet uses. There is no alias or fuzzy matching:
// headers with spaces or punctuation such as "Drive Dist (mi)" must match byte
// for byte.
type HeaderContract struct {
	Address    string
	City       string
	State      string
	Price      string
	Acres      string
	Type       string
	Latitude   string
	Longitude  string
	DriveMiles string
	Score      string
	URL        string
}

// DefaultHeaders returns the header contract of the published listing sheet.
func DefaultHeaders() HeaderContract {
	return HeaderContract{
		Address:    "Address",
		City:       "City",
		State:      "State",
		Price:      "Price",
		Acres:      "Acres",
		Type:       "Type",
		Latitude:   "Latitude",
		Longitude:  "Longitude",
		DriveMiles: "Drive Dist (mi)",
		Score:      "LLM Score",
		URL:        "Property URL Link",
	}
}

// WithDefaults fills any blank header with the default contract's value.
func (h HeaderContract) WithDefaults() HeaderContract {
	d := DefaultHeaders()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&h.Address, d.Address)
	fill(&h.City, d.City)
	fill(&h.State, d.State)
	fill(&h.Price, d.Price)
	fill(&h.Acres, d.Acres)
	fill(&h.Type, d.Type)
	fill(&h.Latitude, d.Latitude)
	fill(&h.Longitude, d.Longitude)
	fill(&h.DriveMiles, d.DriveMiles)
	fill(&h.Score, d.Score)
	fill(&h.URL, d.URL)
	return h
}
