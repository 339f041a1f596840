package models

import "time"

type AggregateResult struct {
	SessionID          int      `json:"sessionId"`
	UnderstoodCount    int      `json:"understood"`
	NotUnderstoodCount int      `json:"notUnderstood"`
	NeutralCount       int      `json:"neutral"`
	Total              int      `json:"total"`
	Expected           int      `json:"expected"`
	Rate               *float64 `json:"rate"`
	Renderable         bool     `json:"renderable"`
	Theme              string   `json:"theme"`
	TakenAtMs          int64    `json:"takenAtMs"`
}

// Aggregate computes the net interest rate for one session:
// (interested - notInterested) / expected * 100, floored at zero.
// With no expected participants there is nothing to plot and Rate is nil.
func Aggregate(sessionID int, counts Counts, expected int, theme string, now time.Time) AggregateResult {
	res := AggregateResult{
		SessionID:          sessionID,
		UnderstoodCount:    counts.Interested,
		NotUnderstoodCount: counts.NotInterested,
		NeutralCount:       counts.Neutral,
		Total:              counts.Interested + counts.NotInterested,
		Expected:           expected,
		Theme:              theme,
		TakenAtMs:          now.UnixMilli(),
	}
	if expected <= 0 {
		return res
	}
	rate := float64(counts.Interested-counts.NotInterested) / float64(expected) * 100
	if rate < 0 {
		rate = 0
	}
	res.Rate = &rate
	res.Renderable = true
	return res
}

func (a AggregateResult) clone() AggregateResult {
	if a.Rate != nil {
		r := *a.Rate
		a.Rate = &r
	}
	return a
}
