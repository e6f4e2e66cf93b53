package automatic

import (
	"bytes"
	"fmt"

	"github.com/aybabtme/uniplot/histogram"
	"gopkg.in/yaml.v3"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/stats"
)

const winRateConfidence = 95

// Summary aggregates a batch of self-play results.
type Summary struct {
	Games           int     `yaml:"games"`
	RedWins         int     `yaml:"red_wins"`
	BlueWins        int     `yaml:"blue_wins"`
	Draws           int     `yaml:"draws"`
	FirstMoverWins  int     `yaml:"first_mover_wins"`
	DistinctGames   int     `yaml:"distinct_games"`
	MeanPlies       float64 `yaml:"mean_plies"`
	StdevPlies      float64 `yaml:"stdev_plies"`
	MinPlies        int     `yaml:"min_plies"`
	MaxPlies        int     `yaml:"max_plies"`
	RedScore        float64 `yaml:"red_score"`
	RedScoreLow     float64 `yaml:"red_score_low"`
	RedScoreHigh    float64 `yaml:"red_score_high"`
	FirstMoverScore float64 `yaml:"first_mover_score"`

	lengths []float64
}

// Summarize computes the summary of results. Scores count a draw as half
// a win.
func Summarize(results []GameResult) Summary {
	var s Summary
	var plies stats.Statistic
	seen := map[uint64]bool{}
	var redPoints, firstPoints float64
	for _, r := range results {
		s.Games++
		plies.Push(float64(r.Plies))
		s.lengths = append(s.lengths, float64(r.Plies))
		seen[r.Fingerprint()] = true
		switch {
		case r.Draw:
			s.Draws++
			redPoints += 0.5
			firstPoints += 0.5
			continue
		case r.Winner == board.Red:
			s.RedWins++
			redPoints++
		default:
			s.BlueWins++
		}
		if r.Winner == r.FirstMover {
			s.FirstMoverWins++
			firstPoints++
		}
	}
	s.DistinctGames = len(seen)
	if s.Games == 0 {
		return s
	}
	s.MeanPlies = plies.Mean()
	s.StdevPlies = plies.Stdev()
	s.MinPlies = int(plies.Min())
	s.MaxPlies = int(plies.Max())
	iv := stats.WinRateInterval(redPoints, s.Games, winRateConfidence)
	s.RedScore, s.RedScoreLow, s.RedScoreHigh = iv.Estimate, iv.Low, iv.High
	s.FirstMoverScore = firstPoints / float64(s.Games)
	return s
}

func (s Summary) YAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Histogram draws the distribution of game lengths.
func (s Summary) Histogram(bins, width int) string {
	if len(s.lengths) == 0 {
		return ""
	}
	var buf bytes.Buffer
	hist := histogram.Hist(bins, s.lengths)
	if err := histogram.Fprint(&buf, hist, histogram.Linear(width)); err != nil {
		return ""
	}
	return buf.String()
}

func (s Summary) String() string {
	out := fmt.Sprintf("Games played: %d\n", s.Games)
	if s.Games == 0 {
		return out
	}
	out += fmt.Sprintf("Red wins: %d  Blue wins: %d  Draws: %d\n", s.RedWins, s.BlueWins, s.Draws)
	out += fmt.Sprintf("Red score: %.3f (%d%% interval %.3f - %.3f)\n",
		s.RedScore, winRateConfidence, s.RedScoreLow, s.RedScoreHigh)
	out += fmt.Sprintf("Player who went first scores: %.3f\n", s.FirstMoverScore)
	out += fmt.Sprintf("Game length: mean %.2f  stdev %.2f  min %d  max %d\n",
		s.MeanPlies, s.StdevPlies, s.MinPlies, s.MaxPlies)
	out += fmt.Sprintf("Distinct games: %d\n", s.DistinctGames)
	return out
}
