package cards

// StarterSet returns the built-in card definitions used when no card database
// is configured. IDs are stable so decks can reference them across runs.
func StarterSet() []*Definition {
	return []*Definition{
		{ID: "fireball", Name: "Fireball", Description: "Deal 5 damage.", Effect: EffectDamage, Amount: 5, Cost: 2},
		{ID: "ember", Name: "Ember", Description: "Deal 2 damage.", Effect: EffectDamage, Amount: 2, Cost: 1},
		{ID: "smite", Name: "Smite", Description: "Deal 8 damage.", Effect: EffectDamage, Amount: 8, Cost: 3},
		{ID: "mend", Name: "Mend", Description: "Restore 4 health.", Effect: EffectHeal, Amount: 4, Cost: 2},
		{ID: "second-wind", Name: "Second Wind", Description: "Restore 2 health.", Effect: EffectHeal, Amount: 2, Cost: 1},
		{ID: "foresight", Name: "Foresight", Description: "Draw 2 cards.", Effect: EffectDrawCard, Amount: 2, Cost: 1},
		{ID: "war-cry", Name: "War Cry", Description: "Gain 2 strength.", Effect: EffectBuffStats, Amount: 2, Status: "strength", Cost: 1},
		{ID: "enfeeble", Name: "Enfeeble", Description: "Weaken the target.", Effect: EffectDebuffStats, Amount: 1, Status: "weakened", Cost: 1},
		{ID: "stoneskin", Name: "Stoneskin", Description: "Apply 2 armor.", Effect: EffectApplyStatus, Amount: 2, Status: "armor", Cost: 1},
	}
}

// StarterDeck returns the default deck contents handed to a new combatant:
// a list of card IDs, duplicates included.
func StarterDeck() []string {
	return []string{
		"fireball", "fireball", "ember", "ember", "ember",
		"smite", "mend", "mend", "second-wind", "foresight",
		"war-cry", "enfeeble", "stoneskin",
	}
}
