package game

import "sort"

// CardRegistry maps card names to their constructor functions.
var CardRegistry = map[string]func() *Card{
	"Low End Theory":   LowEndTheory,
	"Sub Drop":         SubDrop,
	"Walking Bassline": WalkingBassline,
	"Drum Fill":        DrumFill,
	"Blast Beat":       BlastBeat,
	"Power Chord":      PowerChord,
	"Shred Solo":       ShredSolo,
	"Synth Swell":      SynthSwell,
	"Organ Stab":       OrganStab,
	"Encore Ballad":    EncoreBallad,
	"Scream":           Scream,
	"Crowd Chant":      CrowdChant,
}

// LookupCard looks up a card by name and returns a new instance.
func LookupCard(name string) (*Card, bool) {
	ctor, ok := CardRegistry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// CardNames returns the registry's card names in sorted order.
func CardNames() []string {
	names := make([]string, 0, len(CardRegistry))
	for name := range CardRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
