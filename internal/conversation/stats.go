package conversation

import (
	"fmt"

	"github.com/m3rciful/quizbot/internal/users"
)

// Stats summarizes stored records for the admin /stats command.
type Stats struct {
	Users      int
	Onboarded  int
	Finished   int
	ScoreTotal int
	// Histogram counts finished users per score, indexed by score.
	Histogram []int
}

// Summarize folds records into Stats against the engine's catalog.
func (e *Engine) Summarize(recs []users.Record) Stats {
	n := e.catalog.Len()
	st := Stats{Users: len(recs), Histogram: make([]int, n+1)}
	for _, r := range recs {
		if r.Email != "" {
			st.Onboarded++
		}
		if StateOf(r, n) != StateCompleted {
			continue
		}
		st.Finished++
		st.ScoreTotal += r.Score
		if r.Score >= 0 && r.Score <= n {
			st.Histogram[r.Score]++
		}
	}
	return st
}

// AverageScore is the mean score of finished users.
func (s Stats) AverageScore() float64 {
	if s.Finished == 0 {
		return 0
	}
	return float64(s.ScoreTotal) / float64(s.Finished)
}

// Text renders the summary for the admin chat.
func (s Stats) Text() string {
	text := fmt.Sprintf("Участников: %d\nОставили e-mail: %d\nПрошли до конца: %d\nСредний балл: %.2f",
		s.Users, s.Onboarded, s.Finished, s.AverageScore())
	for score, count := range s.Histogram {
		if count == 0 {
			continue
		}
		text += fmt.Sprintf("\n%d балл(ов): %d", score, count)
	}
	return text
}
