package economy

// DefaultUpgrades returns the fixed upgrade table at base cost and zero count.
func DefaultUpgrades() []Upgrade {
	return []Upgrade{
		{
			ID:          "collector",
			Name:        "Stardust Collector",
			Description: "A little net for catching stray stardust.",
			Cost:        10,
			Rate:        0.1,
		},
		{
			ID:          "telescope",
			Name:        "Star Telescope",
			Description: "Spots dust clouds before anyone else does.",
			Cost:        100,
			Rate:        2,
		},
		{
			ID:          "comet",
			Name:        "Comet Harvester",
			Description: "Skims the tail of every passing comet.",
			Cost:        1000,
			Rate:        50,
		},
	}
}
