package web

import "github.com/peterkuimelis/bandclash/internal/game"

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Size   int      `json:"size"`
	Cards  []string `json:"cards"`
}

func loadDeckInfos(path string) ([]DeckInfo, error) {
	df, err := game.LoadDeckFile(path)
	if err != nil {
		return nil, err
	}

	decks := make([]DeckInfo, 0, len(df.Decks))
	for i, d := range df.Decks {
		deck, err := df.BuildDeck(d)
		if err != nil {
			return nil, err
		}
		di := DeckInfo{
			Number: i + 1,
			Name:   d.Name,
			Size:   len(deck),
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if c.Blank || seen[c.Name] {
				continue
			}
			di.Cards = append(di.Cards, c.Name)
			seen[c.Name] = true
		}
		decks = append(decks, di)
	}
	return decks, nil
}
