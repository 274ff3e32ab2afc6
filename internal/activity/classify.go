package activity

import "strings"

// Inherent productivity weights for well-known application and domain
// identities, 0.0 (pure leisure) to 1.0 (focused work). Unclassified
// identities score 0.5.
var defaultScores = map[string]float64{
	// Development tools
	"code":              1.0,
	"code.exe":          1.0,
	"devenv":            1.0,
	"idea64":            1.0,
	"goland64":          1.0,
	"pycharm64":         1.0,
	"sublime_text":      0.9,
	"windowsterminal":   0.9,
	"terminal":          0.9,
	"github.com":        0.9,
	"gitlab.com":        0.9,
	"stackoverflow.com": 0.9,

	// Office suites
	"winword":  0.9,
	"excel":    0.9,
	"powerpnt": 0.8,
	"outlook":  0.7,
	"notion":   0.8,
	"obsidian": 0.8,

	// Communication
	"slack": 0.7,
	"teams": 0.7,
	"zoom":  0.6,

	// Browsers (content unknown, lean productive)
	"chrome":  0.8,
	"firefox": 0.8,
	"msedge":  0.8,
	"safari":  0.8,
	"brave":   0.8,
	"opera":   0.8,

	// Social / video / gaming
	"youtube.com":   0.1,
	"netflix.com":   0.0,
	"twitch.tv":     0.1,
	"facebook.com":  0.1,
	"instagram.com": 0.1,
	"twitter.com":   0.2,
	"x.com":         0.2,
	"tiktok.com":    0.0,
	"reddit.com":    0.2,
	"steam":         0.0,
	"discord":       0.3,
}

// KeywordRule is an ordered fallback applied to the window title (then the
// identity) of apps the table does not know.
type KeywordRule struct {
	Keyword string
	Score   float64
}

var defaultKeywordRules = []KeywordRule{
	{"visual studio", 1.0},
	{"documentation", 0.9},
	{"pull request", 0.9},
	{"jira", 0.8},
	{"confluence", 0.8},
	{"tutorial", 0.7},
	{"meeting", 0.6},
	{"music", 0.3},
	{"video", 0.2},
	{"game", 0.1},
	{"stream", 0.1},
}

const unclassifiedScore = 0.5

// ScoreTable maps application/domain identities to inherent productivity
// weights, with ordered keyword fallback rules for unknowns.
type ScoreTable struct {
	exact map[string]float64
	rules []KeywordRule
}

// NewScoreTable builds the default table with optional per-identity
// overrides from configuration.
func NewScoreTable(overrides map[string]float64) *ScoreTable {
	t := &ScoreTable{
		exact: make(map[string]float64, len(defaultScores)+len(overrides)),
		rules: defaultKeywordRules,
	}
	for k, v := range defaultScores {
		t.exact[strings.ToLower(k)] = clampScore(v)
	}
	for k, v := range overrides {
		t.exact[strings.ToLower(strings.TrimSpace(k))] = clampScore(v)
	}
	return t
}

// Score returns the weight for an identity, consulting the exact table first
// (with and without an .exe suffix), then the keyword rules against the
// window title and the identity, then the unclassified default.
func (t *ScoreTable) Score(identity, windowTitle string) float64 {
	id := strings.ToLower(strings.TrimSpace(identity))
	if s, ok := t.exact[id]; ok {
		return s
	}
	if s, ok := t.exact[strings.TrimSuffix(id, ".exe")]; ok {
		return s
	}

	title := strings.ToLower(windowTitle)
	for _, r := range t.rules {
		if strings.Contains(title, r.Keyword) || strings.Contains(id, r.Keyword) {
			return r.Score
		}
	}
	return unclassifiedScore
}

// WeightedPercent computes the duration-weighted average score of the given
// records as a percentage. Background and zero-duration records are ignored;
// no scorable records yields 0.
func (t *ScoreTable) WeightedPercent(recs []Record) float64 {
	var weighted, total float64
	for _, r := range recs {
		if r.Background || r.Duration <= 0 {
			continue
		}
		secs := r.Duration.Seconds()
		weighted += t.Score(CanonicalKey(r), r.WindowTitle) * secs
		total += secs
	}
	if total == 0 {
		return 0
	}
	return weighted / total * 100
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
