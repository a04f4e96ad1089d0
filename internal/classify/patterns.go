package classify

import "github.com/spendcal/spendcal/internal/models"

// Pattern is one row of the category table: the keywords that identify a
// category plus its base spending parameters.
type Pattern struct {
	Category            models.Category
	Keywords            []string
	SpendingProbability float64
	ExpectedRange       models.SpendingRange
	SpendingCategories  []string
	Confidence          float64
}

// DefaultPatterns returns the canonical category table. The slice order is
// part of the classification contract: when two categories score the same
// confidence, the earlier entry wins.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Category:            models.CategoryDiningSocial,
			Keywords:            []string{"dinner", "lunch", "breakfast", "brunch", "restaurant", "cafe", "coffee", "bar", "pub", "party", "social", "meet", "date", "food", "eat", "dining"},
			SpendingProbability: 0.8,
			ExpectedRange:       models.SpendingRange{Min: 15, Max: 80},
			SpendingCategories:  []string{"Food & Dining"},
			Confidence:          0.85,
		},
		{
			Category:            models.CategoryTravelTransport,
			Keywords:            []string{"flight", "train", "bus", "taxi", "uber", "lyft", "travel", "trip", "vacation", "hotel", "airbnb", "transport", "commute", "drive", "parking"},
			SpendingProbability: 0.9,
			ExpectedRange:       models.SpendingRange{Min: 20, Max: 500},
			SpendingCategories:  []string{"Transportation", "Travel"},
			Confidence:          0.9,
		},
		{
			Category:            models.CategoryShoppingRetail,
			Keywords:            []string{"shopping", "store", "mall", "buy", "purchase", "retail", "clothes", "shoes", "electronics", "grocery", "market", "shop"},
			SpendingProbability: 0.7,
			ExpectedRange:       models.SpendingRange{Min: 25, Max: 200},
			SpendingCategories:  []string{"Shopping"},
			Confidence:          0.8,
		},
		{
			Category:            models.CategoryEntertainmentRecreation,
			Keywords:            []string{"movie", "theater", "concert", "show", "game", "sports", "gym", "fitness", "workout", "entertainment", "fun", "play", "activity", "hobby"},
			SpendingProbability: 0.6,
			ExpectedRange:       models.SpendingRange{Min: 10, Max: 150},
			SpendingCategories:  []string{"Entertainment"},
			Confidence:          0.75,
		},
		{
			Category:            models.CategoryHealthMedical,
			Keywords:            []string{"doctor", "dentist", "medical", "health", "appointment", "checkup", "therapy", "pharmacy", "medicine", "hospital", "clinic"},
			SpendingProbability: 0.5,
			ExpectedRange:       models.SpendingRange{Min: 50, Max: 300},
			SpendingCategories:  []string{"Healthcare"},
			Confidence:          0.8,
		},
		{
			Category:            models.CategoryEducationTraining,
			Keywords:            []string{"class", "course", "training", "workshop", "seminar", "lecture", "study", "learning", "education", "school", "tutorial"},
			SpendingProbability: 0.4,
			ExpectedRange:       models.SpendingRange{Min: 0, Max: 200},
			SpendingCategories:  []string{"Education"},
			Confidence:          0.7,
		},
		{
			Category: models.CategoryCollegeClasses,
			Keywords: []string{
				"class", "lecture", "lab", "seminar", "tutorial", "professor", "midterm", "final", "exam", "syllabus",
				"university", "college", "campus", "course", "assignment", "homework", "quiz", "test",
				// Lowercased department codes, for events that spell them out.
				"rhet", "econ", "math", "cs", "bio", "chem", "phys", "hist", "engl", "span", "fren", "germ",
				"calc", "stat", "alg", "geom", "trig", "comp", "data", "info", "tech", "eng", "sci", "art",
				"mus", "dram", "thea", "film", "photo", "draw", "paint", "sculpt", "arch", "design", "bus",
				"mkt", "fin", "acc", "mgmt", "hr", "ops", "supply", "log", "psych", "soc", "anth", "pol",
				"gov", "law", "med", "nurs", "pharm", "dent", "vet", "agri", "env", "geo", "met", "ocean",
			},
			SpendingProbability: 0.2,
			ExpectedRange:       models.SpendingRange{Min: 0, Max: 100},
			SpendingCategories:  []string{"Education"},
			Confidence:          0.95,
		},
		{
			Category:            models.CategoryWorkBusiness,
			Keywords:            []string{"meeting", "work", "business", "office", "client", "presentation", "conference", "interview", "job", "career", "professional"},
			SpendingProbability: 0.3,
			ExpectedRange:       models.SpendingRange{Min: 0, Max: 100},
			SpendingCategories:  []string{"Business"},
			Confidence:          0.7,
		},
		{
			Category:            models.CategoryPersonalSocial,
			Keywords:            []string{"personal", "family", "friend", "social", "gathering", "celebration", "birthday", "anniversary", "wedding", "event"},
			SpendingProbability: 0.5,
			ExpectedRange:       models.SpendingRange{Min: 20, Max: 150},
			SpendingCategories:  []string{"Personal"},
			Confidence:          0.6,
		},
	}
}
