package game

import (
	"context"
	"errors"
)

// ErrHumanSide is returned by Run when the Ally side has no evaluator.
var ErrHumanSide = errors.New("ally side is human-driven")

// NopDisplay discards hand and input updates. Simulations use it.
type NopDisplay struct{}

func (NopDisplay) SetHand(Hand)     {}
func (NopDisplay) EnableInput(bool) {}

// Run starts the match and plays it to the end without pacing. Both sides must be
// AI-driven; the turn limit bounds the loop.
func (m *Match) Run(ctx context.Context) error {
	if m.allyAI == nil {
		return ErrHumanSide
	}
	if err := m.Start(ctx); err != nil {
		return err
	}
	for !m.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.Update(m.delay)
	}
	return nil
}
