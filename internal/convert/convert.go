// Package convert maps a Scryfall printing onto the normalized entities in
// package model. Every function is total over scryfall.Card: malformed
// sub-fields degrade to empty values instead of failing the record.
package convert

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"scryfallsql/internal/model"
	"scryfallsql/internal/scryfall"
	"scryfallsql/internal/textutil"
)

// legalStatus is the only legality value that grants a format.
const legalStatus = "legal"

// releaseDateLayout is the layout of Scryfall's released_at field.
const releaseDateLayout = "2006-01-02"

// Formats returns the recognised formats whose status is "legal".
// Unknown format keys are dropped.
func Formats(legalities map[string]string) []model.Format {
	var out []model.Format
	for key, status := range legalities {
		if status != legalStatus {
			continue
		}
		if f, ok := model.LookupFormat(key); ok {
			out = append(out, f)
		}
	}
	return model.SortedSet(out)
}

// Games returns the recognised platforms of a printing.
func Games(names []string) []model.Game {
	var out []model.Game
	for _, n := range names {
		if g, ok := model.LookupGame(n); ok {
			out = append(out, g)
		}
	}
	return model.SortedSet(out)
}

// CardID parses the printing's stable oracle id. A missing or malformed id
// yields uuid.Nil.
func CardID(rec *scryfall.Card) uuid.UUID {
	id, err := uuid.Parse(rec.StableID())
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ToCard builds the abstract card from its first-seen printing.
func ToCard(rec *scryfall.Card) model.Card {
	var faces []model.CardFace
	if len(rec.CardFaces) > 0 {
		faces = make([]model.CardFace, 0, len(rec.CardFaces))
		for i := range rec.CardFaces {
			faces = append(faces, ToCardFaceOf(rec, &rec.CardFaces[i]))
		}
	} else {
		faces = []model.CardFace{ToCardFace(rec)}
	}

	return model.Card{
		ID:             CardID(rec),
		Name:           rec.Name,
		Faces:          faces,
		Formats:        Formats(rec.Legalities),
		ColourIdentity: textutil.ParseColourIdentity(rec.ColorIdentity),
		Keywords:       keywordSet(rec.Keywords),
	}
}

// ToCardFace synthesizes the single face of a card without card_faces.
func ToCardFace(rec *scryfall.Card) model.CardFace {
	return buildFace(rec, rec.Name, rec.ManaCost, rec.TypeLine, rec.OracleText, rec.Power, rec.Toughness, rec.Loyalty)
}

// ToCardFaceOf converts one face of a multi-faced printing. Only the mana
// value is taken from the parent; everything else, including the colours
// derived from the face's own mana cost, belongs to the face.
func ToCardFaceOf(rec *scryfall.Card, face *scryfall.CardFace) model.CardFace {
	return buildFace(rec, face.Name, face.ManaCost, face.TypeLine, face.OracleText, face.Power, face.Toughness, face.Loyalty)
}

func buildFace(rec *scryfall.Card, name, manaCost, typeLine, oracleText string, power, toughness, loyalty *string) model.CardFace {
	cost := textutil.ParseManaCost(manaCost)
	types, subtypes := textutil.ParseTypeLine(typeLine)
	return model.CardFace{
		CardID:     CardID(rec),
		Name:       name,
		ManaValue:  rec.CMC,
		ManaCost:   cost,
		Colours:    textutil.ParseColourIdentity(cost),
		Types:      types,
		Subtypes:   subtypes,
		OracleText: oracleText,
		Power:      cloneString(power),
		Toughness:  cloneString(toughness),
		Loyalty:    cloneString(loyalty),
	}
}

// ToMagicSet copies the set fields of a printing.
func ToMagicSet(rec *scryfall.Card) model.MagicSet {
	s := model.MagicSet{Code: rec.Set, Name: rec.SetName}
	if d, err := time.Parse(releaseDateLayout, strings.TrimSpace(rec.ReleasedAt)); err == nil {
		s.ReleaseDate = &d
	}
	return s
}

// ToCardEdition converts the printing itself. The edition id is the
// printing's Scryfall id when it parses, otherwise a fresh random id.
func ToCardEdition(rec *scryfall.Card) model.CardEdition {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		id = uuid.New()
	}
	return model.CardEdition{
		ID:              id,
		CardID:          CardID(rec),
		SetCode:         rec.Set,
		CollectorNumber: rec.CollectorNumber,
		Rarity:          model.LookupRarity(rec.Rarity),
		IsReprint:       rec.Reprint,
		Games:           Games(rec.Games),
		ScryfallURL:     rec.ScryfallURI,
	}
}

// keywordSet returns the distinct keywords in sorted order.
func keywordSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
