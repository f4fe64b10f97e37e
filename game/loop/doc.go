// Package loop drives a game engine frame by frame.
//
// The engine never schedules itself. A Driver owns one engine, accepts
// commands from any goroutine through a bounded non-blocking queue and, once
// per frame, applies gravity according to a Cadence and then drains the
// commands that were pending when the frame began.
//
// Cadences:
//
//   - FixedCadence ticks every n frames
//   - ScoreCadence shortens the interval as the score grows
//   - ManualCadence never ticks; callers send engine.Tick themselves
//
// Usage:
//
//	drv := loop.New(eng, loop.CadenceFor(eng.Settings()), loop.WithFrameHook(paint))
//	drv.Start()
//	go listenKeys(drv.Submit)
//	err := drv.Run(ctx, loop.FrameInterval)
package loop
