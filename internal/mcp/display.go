package mcp

import (
	"context"
	"sync"

	"github.com/peterkuimelis/bandclash/internal/game"
	"github.com/peterkuimelis/bandclash/internal/log"
	"github.com/peterkuimelis/bandclash/internal/net"
)

// MCPDisplay implements game.Display and game.Notifier for a tool-driven player.
// It buffers events until the next tool response drains them.
type MCPDisplay struct {
	mu      sync.Mutex
	enabled bool
	events  []net.EventView
}

// NewMCPDisplay creates an empty display.
func NewMCPDisplay() *MCPDisplay {
	return &MCPDisplay{}
}

// SetHand implements game.Display. Responses read the hand from the match.
func (d *MCPDisplay) SetHand(game.Hand) {}

// EnableInput implements game.Display.
func (d *MCPDisplay) EnableInput(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// InputEnabled reports whether the match is waiting on the tool player.
func (d *MCPDisplay) InputEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// Notify implements game.Notifier.
func (d *MCPDisplay) Notify(ctx context.Context, event log.GameEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, *net.EventViewOf(event))
	return nil
}

// drainEvents returns all buffered events and clears the buffer.
func (d *MCPDisplay) drainEvents() []net.EventView {
	d.mu.Lock()
	defer d.mu.Unlock()
	events := d.events
	d.events = nil
	return events
}
