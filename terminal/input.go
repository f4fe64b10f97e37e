package terminal

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

// Submitter accepts commands for the next frame
type Submitter interface {
	Submit(cmd engine.Command) error
}

// CommandForKey translates a key press into a command
func CommandForKey(ev *tcell.EventKey) (engine.Command, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return engine.Rotate, true
	case tcell.KeyLeft:
		return engine.MoveLeft, true
	case tcell.KeyRight:
		return engine.MoveRight, true
	case tcell.KeyDown:
		return engine.SoftDrop, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return engine.Quit, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return engine.HardDrop, true
		case 'q', 'Q':
			return engine.Quit, true
		case 'p', 'P':
			return engine.Pause, true
		case 'w', 'k':
			return engine.Rotate, true
		case 'a', 'h':
			return engine.MoveLeft, true
		case 'd', 'l':
			return engine.MoveRight, true
		case 's', 'j':
			return engine.SoftDrop, true
		}
	}
	return "", false
}

// Input pumps screen events into a channel shared by Listen and WaitForKey
type Input struct {
	events chan tcell.Event
	done   chan struct{}
	once   sync.Once
}

// NewInput starts polling screen. Polling stops once the screen is
// finalized or Close is called.
func NewInput(screen tcell.Screen) *Input {
	in := &Input{
		events: make(chan tcell.Event, 16),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(in.events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case in.events <- ev:
			case <-in.done:
				return
			}
		}
	}()
	return in
}

// Close stops forwarding events. Unread events are dropped.
func (in *Input) Close() {
	in.once.Do(func() { close(in.done) })
}

// Listen forwards key presses to sub until ctx is done, the session
// finishes or a quit key is pressed. onResize runs on terminal resizes.
func (in *Input) Listen(ctx context.Context, sub Submitter, onResize func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in.events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				if onResize != nil {
					onResize()
				}
			case *tcell.EventKey:
				cmd, ok := CommandForKey(ev)
				if !ok {
					continue
				}
				if err := sub.Submit(cmd); err != nil {
					if errors.Is(err, loop.ErrFinished) {
						return
					}
					log.Printf("Dropped key %s: %v", cmd, err)
				}
				if cmd == engine.Quit {
					return
				}
			}
		}
	}
}

// WaitForKey blocks until any key is pressed or ctx is done
func (in *Input) WaitForKey(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in.events:
			if !ok {
				return
			}
			if _, isKey := ev.(*tcell.EventKey); isKey {
				return
			}
		}
	}
}
