// Package model holds the normalized entities emitted by the converter:
// one MagicSet per set code, one Card per oracle id (with its faces), and one
// CardEdition per printing.
//
// All types are plain values. Slices that represent sets (formats, colours,
// games, keywords) are kept sorted and free of duplicates so that rendering
// is deterministic.
package model

import (
	"time"

	"github.com/google/uuid"
)

// MagicSet is a card set (expansion, promo set, ...).
type MagicSet struct {
	Code string
	Name string
	// ReleaseDate is nil when the source did not carry a parseable date.
	ReleaseDate *time.Time
}

// Card is the abstract card shared by all of its printings.
type Card struct {
	ID             uuid.UUID
	Name           string
	Faces          []CardFace
	Formats        []Format
	ColourIdentity []Colour
	Keywords       []string
}

// CardFace is one face of a card. Single-faced cards have exactly one.
type CardFace struct {
	CardID     uuid.UUID
	Name       string
	ManaValue  float64
	ManaCost   []string
	Colours    []Colour
	Types      []string
	Subtypes   []string
	OracleText string
	Power      *string
	Toughness  *string
	Loyalty    *string
}

// CardEdition is a single printing of a card in a set.
type CardEdition struct {
	ID              uuid.UUID
	CardID          uuid.UUID
	SetCode         string
	CollectorNumber string
	Rarity          Rarity
	IsReprint       bool
	Games           []Game
	ScryfallURL     string
}
