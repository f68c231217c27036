// Package scryfall describes the subset of the Scryfall bulk-data card
// object that the converter reads, and streams those objects out of a bulk
// export file.
package scryfall

// Card is one printing as published in the Scryfall "default cards" bulk
// file. Unknown JSON fields are ignored.
type Card struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id"`
	Name            string            `json:"name"`
	CMC             float64           `json:"cmc"`
	ManaCost        string            `json:"mana_cost"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text"`
	Power           *string           `json:"power"`
	Toughness       *string           `json:"toughness"`
	Loyalty         *string           `json:"loyalty"`
	ColorIdentity   []string          `json:"color_identity"`
	Keywords        []string          `json:"keywords"`
	Legalities      map[string]string `json:"legalities"`
	Set             string            `json:"set"`
	SetName         string            `json:"set_name"`
	ReleasedAt      string            `json:"released_at"`
	CollectorNumber string            `json:"collector_number"`
	Rarity          string            `json:"rarity"`
	Reprint         bool              `json:"reprint"`
	Games           []string          `json:"games"`
	CardFaces       []CardFace        `json:"card_faces"`
	ScryfallURI     string            `json:"scryfall_uri"`

	// Ordinal is the zero-based position of the record in the input stream,
	// set by Decoder.
	Ordinal int `json:"-"`
}

// CardFace is one face of a multi-faced printing (transform, modal
// double-faced, split, flip, adventure, ...).
type CardFace struct {
	OracleID   string  `json:"oracle_id"`
	Name       string  `json:"name"`
	ManaCost   string  `json:"mana_cost"`
	TypeLine   string  `json:"type_line"`
	OracleText string  `json:"oracle_text"`
	Power      *string `json:"power"`
	Toughness  *string `json:"toughness"`
	Loyalty    *string `json:"loyalty"`
}

// StableID returns the oracle id shared by every printing of the card.
// Reversible printings only carry it on their faces, so the first non-empty
// face oracle id is used as a fallback.
func (c *Card) StableID() string {
	if c.OracleID != "" {
		return c.OracleID
	}
	for _, f := range c.CardFaces {
		if f.OracleID != "" {
			return f.OracleID
		}
	}
	return ""
}
