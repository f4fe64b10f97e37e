package engine

import "fmt"

// Scoring constants. Each cleared row scores ClearBase plus ClearStep for
// every combo step already reached, including rows of the same lock.
const (
	ClearBase = 100
	ClearStep = 30
	// HardDropStep is awarded per row fallen during a hard drop
	HardDropStep = 1
)

// Ledger accumulates score and combo statistics for a session
type Ledger struct {
	Score        int `json:"score"`
	CurrentCombo int `json:"current_combo"`
	BestCombo    int `json:"best_combo"`
	RowsCleared  int `json:"rows_cleared"`
}

// ApplyClear records the outcome of a lock that cleared rows rows
func (l *Ledger) ApplyClear(rows int) {
	if rows <= 0 {
		l.CurrentCombo = 0
		return
	}
	for range rows {
		l.Score += ClearBase + l.CurrentCombo*ClearStep
		l.RowsCleared++
		l.CurrentCombo++
		l.BestCombo = max(l.BestCombo, l.CurrentCombo)
	}
}

// AddDropBonus awards the per-row hard-drop bonus. Combo is untouched.
func (l *Ledger) AddDropBonus(rows int) {
	if rows > 0 {
		l.Score += rows * HardDropStep
	}
}

func (l Ledger) String() string {
	return fmt.Sprintf("score: %d, highest combo: %d, rows eliminated: %d", l.Score, l.BestCombo, l.RowsCleared)
}
