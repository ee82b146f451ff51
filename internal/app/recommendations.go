package app

// Band is a performance band derived from accuracy.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// RecommendationCount is the fixed size of every recommendation list.
const RecommendationCount = 3

// BandFor maps accuracy to a band: <40 low, 40-69 mid, >=70 high.
func BandFor(accuracy int) Band {
	switch {
	case accuracy < 40:
		return BandLow
	case accuracy < 70:
		return BandMid
	default:
		return BandHigh
	}
}

var subjectTips = map[string]map[Band][]string{
	"matematica": {
		BandLow:  {"Review basic algebra concepts", "Practice the fundamental operations"},
		BandMid:  {"Review derivatives of polynomial functions", "Solve more differential calculus exercises"},
		BandHigh: {"Explore advanced calculus topics", "Practice applied word problems"},
	},
	"portugues": {
		BandLow:  {"Review basic grammar rules", "Practice verbal and nominal agreement"},
		BandMid:  {"Practice syntactic analysis", "Study figures of speech"},
		BandHigh: {"Go deeper into Brazilian literature", "Practice essay and argumentative writing"},
	},
}

var bandTips = map[Band][]string{
	BandLow:  {"Go back to the fundamentals of this subject", "Work through solved examples before trying exercises alone"},
	BandMid:  {"Focus on the topics where you missed questions", "Take timed practice quizzes to build confidence"},
	BandHigh: {"Challenge yourself with harder questions", "Teach the topic to someone else to consolidate it"},
}

const hygieneTip = "Keep a regular study schedule and review your mistakes after each quiz"

// StaticRecommendations combines band-specific advice (subject-specific when available) with a universal tip.
func StaticRecommendations(subjectKey string, band Band) []string {
	tips, ok := subjectTips[subjectKey][band]
	if !ok {
		tips = bandTips[band]
	}
	out := make([]string, 0, RecommendationCount)
	out = append(out, tips[:RecommendationCount-1]...)
	return append(out, hygieneTip)
}
