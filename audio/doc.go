// Package audio plays optional tone cues: a click when a piece locks, a
// note per clearing lock whose pitch rises with the combo, and a falling
// two-note phrase on game over.
//
// SoundManager.OnFrame plugs into the frame loop as a loop.FrameHook.
package audio
