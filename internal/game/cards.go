package game

// Built-in band cards. Deck files can reference these by name or define their own.

func LowEndTheory() *Card {
	return &Card{
		Name:            "Low End Theory",
		Description:     "A warm bassline that restores 20 health to one bandmate.",
		Role:            RoleBass,
		HealthBonus:     20,
		MaxMultiTargets: 1,
		HitEffect:       "glow_blue",
	}
}

func SubDrop() *Card {
	return &Card{
		Name:            "Sub Drop",
		Description:     "Rattles one rival for 12 damage.",
		Role:            RoleBass,
		DamageBonus:     12,
		MaxMultiTargets: 1,
		HitEffect:       "shockwave",
	}
}

func WalkingBassline() *Card {
	return &Card{
		Name:            "Walking Bassline",
		Description:     "Either restores 8 health to a bandmate or deals 8 damage to a rival.",
		Role:            RoleBass,
		DamageBonus:     8,
		HealthBonus:     8,
		MaxMultiTargets: 1,
		HitEffect:       "pulse",
	}
}

func DrumFill() *Card {
	return &Card{
		Name:            "Drum Fill",
		Description:     "Hits up to 3 rivals for 8 damage each.",
		Role:            RoleDrummer,
		DamageBonus:     8,
		MaxMultiTargets: 3,
		HitEffect:       "snare_burst",
	}
}

func BlastBeat() *Card {
	return &Card{
		Name:            "Blast Beat",
		Description:     "Hits up to 5 rivals for 6 damage each.",
		Role:            RoleDrummer,
		DamageBonus:     6,
		MaxMultiTargets: 5,
		HitEffect:       "snare_burst",
	}
}

func PowerChord() *Card {
	return &Card{
		Name:            "Power Chord",
		Description:     "Deals 15 damage to one rival.",
		Role:            RoleGuitar,
		DamageBonus:     15,
		MaxMultiTargets: 1,
		HitEffect:       "spark",
	}
}

func ShredSolo() *Card {
	return &Card{
		Name:            "Shred Solo",
		Description:     "Deals 22 damage to one rival.",
		Role:            RoleGuitar,
		DamageBonus:     22,
		MaxMultiTargets: 1,
		HitEffect:       "flame",
	}
}

func SynthSwell() *Card {
	return &Card{
		Name:            "Synth Swell",
		Description:     "Keyboard heals count double: restores 24 health to one bandmate.",
		Role:            RoleKeyboard,
		HealthBonus:     12,
		MaxMultiTargets: 1,
		HitEffect:       "glow_green",
	}
}

func OrganStab() *Card {
	return &Card{
		Name:            "Organ Stab",
		Description:     "Deals 14 damage to one rival.",
		Role:            RoleKeyboard,
		DamageBonus:     14,
		MaxMultiTargets: 1,
		HitEffect:       "spark",
	}
}

func EncoreBallad() *Card {
	return &Card{
		Name:            "Encore Ballad",
		Description:     "Restores 18 health to one bandmate.",
		Role:            RoleSinger,
		HealthBonus:     18,
		MaxMultiTargets: 1,
		HitEffect:       "glow_gold",
	}
}

func Scream() *Card {
	return &Card{
		Name:            "Scream",
		Description:     "Hits up to 2 rivals for 10 damage each.",
		Role:            RoleSinger,
		DamageBonus:     10,
		MaxMultiTargets: 2,
		HitEffect:       "soundwave",
	}
}

func CrowdChant() *Card {
	return &Card{
		Name:            "Crowd Chant",
		Description:     "Hits up to 4 rivals for 7 damage each.",
		Role:            RoleSinger,
		DamageBonus:     7,
		MaxMultiTargets: 4,
		HitEffect:       "soundwave",
	}
}
