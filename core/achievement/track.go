package achievement

// TrackName identifies one of the independent progression axes.
type TrackName string

const (
	TrackBelt  TrackName = "belt"  // driven by stories uploaded
	TrackLevel TrackName = "level" // driven by ninja gold (reward points)
)

// Progression is the slice of a user's record the engine reads.
type Progression struct {
	UserID          string `json:"user_id"`
	StoriesUploaded int64  `json:"stories_uploaded"`
	RewardPoints    int64  `json:"reward_points"`
	BeltTier        int    `json:"belt_tier"`
	LevelTier       int    `json:"level_tier"`
}

// Track binds a tier table to the counter and stored tier index it is evaluated against.
type Track struct {
	Name    TrackName
	Table   Table
	Counter func(Progression) int64
	Stored  func(Progression) int
}

func BeltTrack(table Table) Track {
	return Track{
		Name:    TrackBelt,
		Table:   table,
		Counter: func(p Progression) int64 { return p.StoriesUploaded },
		Stored:  func(p Progression) int { return p.BeltTier },
	}
}

func LevelTrack(table Table) Track {
	return Track{
		Name:    TrackLevel,
		Table:   table,
		Counter: func(p Progression) int64 { return p.RewardPoints },
		Stored:  func(p Progression) int { return p.LevelTier },
	}
}

var (
	// DefaultBeltTable ranks writers by the number of stories they uploaded.
	DefaultBeltTable = MustTable(
		Tier{Name: "White", Threshold: 1, Image: "belts/white.png",
			Message: "Every ninja starts somewhere. Your first story is out in the world!"},
		Tier{Name: "Yellow", Threshold: 2, Image: "belts/yellow.png",
			Message: "Two stories already! Your writing is starting to shine."},
		Tier{Name: "Orange", Threshold: 4, Image: "belts/orange.png",
			Message: "Your imagination is on fire. Keep those stories coming!"},
		Tier{Name: "Green", Threshold: 5, Image: "belts/green.png",
			Message: "Your stories are growing like a forest."},
		Tier{Name: "Blue", Threshold: 7, Image: "belts/blue.png",
			Message: "Deep as the ocean! Readers love diving into your tales."},
		Tier{Name: "Purple", Threshold: 10, Image: "belts/purple.png",
			Message: "Ten stories! That is royal-level writing."},
		Tier{Name: "Brown", Threshold: 13, Image: "belts/brown.png",
			Message: "Strong roots make strong writers."},
		Tier{Name: "Red", Threshold: 16, Image: "belts/red.png",
			Message: "Your pen is unstoppable!"},
		Tier{Name: "Black", Threshold: 20, Image: "belts/black.png",
			Message: "You are a true Writing Ninja master."},
	)

	// DefaultLevelTable ranks ninjas by the ninja gold they collected.
	DefaultLevelTable = MustTable(
		Tier{Name: "Beginner", Threshold: 0, Image: "levels/beginner.png"},
		Tier{Name: "Apprentice", Threshold: 50, Image: "levels/apprentice.png"},
		Tier{Name: "Scout", Threshold: 100, Image: "levels/scout.png"},
		Tier{Name: "Warrior", Threshold: 150, Image: "levels/warrior.png"},
		Tier{Name: "Guardian", Threshold: 200, Image: "levels/guardian.png"},
		Tier{Name: "Samurai", Threshold: 300, Image: "levels/samurai.png"},
		Tier{Name: "Shadow", Threshold: 400, Image: "levels/shadow.png"},
		Tier{Name: "Master", Threshold: 500, Image: "levels/master.png"},
		Tier{Name: "Grandmaster", Threshold: 750, Image: "levels/grandmaster.png"},
		Tier{Name: "Legend", Threshold: 1000, Image: "levels/legend.png"},
	)
)
