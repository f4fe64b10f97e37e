package terminal

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/blockfall/game/config"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

// Play runs a full game on screen until it ends or ctx is canceled, then
// shows the record and waits for a key. Extra hooks observe every frame.
func Play(ctx context.Context, screen tcell.Screen, eng *engine.Engine, texture config.Texture, hooks ...loop.FrameHook) (engine.Ledger, error) {
	painter := NewPainter(screen, texture)

	opts := []loop.Option{loop.WithFrameHook(painter.OnFrame)}
	for _, hook := range hooks {
		opts = append(opts, loop.WithFrameHook(hook))
	}
	driver := loop.New(eng, nil, opts...)

	input := NewInput(screen)
	defer input.Close()
	listenCtx, stopListening := context.WithCancel(ctx)
	listening := make(chan struct{})
	go func() {
		defer close(listening)
		input.Listen(listenCtx, driver, painter.Redraw)
	}()

	driver.Start()
	err := driver.Run(ctx, loop.FrameInterval)
	stopListening()
	<-listening

	ledger := driver.Snapshot().Ledger
	if err != nil {
		return ledger, err
	}

	painter.DrawRecord(ledger)
	input.WaitForKey(ctx)
	return ledger, nil
}
