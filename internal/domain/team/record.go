package team

// Record is the cumulative win/draw/loss ledger of a team.
type Record struct {
	TeamID         string
	TotalGameCount int
	WinCount       int
	DrawCount      int
	LoseCount      int
	WinRate        float64
}

// RecordDelta is the change one settled match applies to a record.
type RecordDelta struct {
	Games int
	Wins  int
	Draws int
	Loses int
}

// Apply adds delta and recomputes the win rate with fractional division.
func (r Record) Apply(delta RecordDelta) Record {
	r.TotalGameCount += delta.Games
	r.WinCount += delta.Wins
	r.DrawCount += delta.Draws
	r.LoseCount += delta.Loses
	r.WinRate = 0
	if r.TotalGameCount > 0 {
		r.WinRate = float64(r.WinCount) / float64(r.TotalGameCount)
	}
	return r
}
