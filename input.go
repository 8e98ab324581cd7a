package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/brawl/arena"
)

// Input polls the keyboard and gamepad once per frame and splits the
// result into the simulation intent and the shell-only toggles.
type Input struct {
	// Intent is handed to the arena on the next tick.
	Intent arena.Intent
	// PausePressed is true on the frame the pause key was pressed.
	PausePressed bool
	// DebugPressed toggles the debug overlay.
	DebugPressed bool
	// SnapshotPressed copies the debug snapshot to the clipboard.
	SnapshotPressed bool
	// SlowMoPressed toggles half-speed time.
	SlowMoPressed bool
	// ResetPressed rebuilds the arena from its prefabs.
	ResetPressed bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the devices and rebuilds the frame's input state.
func (i *Input) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}

	in := arena.Intent{
		Jump:     inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyW),
		Light:    inpututil.IsKeyJustPressed(ebiten.KeyJ),
		Heavy:    inpututil.IsKeyJustPressed(ebiten.KeyK),
		Special:  inpututil.IsKeyJustPressed(ebiten.KeyL),
		SwapPrev: inpututil.IsKeyJustPressed(ebiten.KeyQ),
		SwapNext: inpututil.IsKeyJustPressed(ebiten.KeyE),
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		in.QuickSwap = 1
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		in.QuickSwap = 2
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		in.QuickSwap = 3
	}

	pause := inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)

	// Gamepad: left stick X plus the standard face buttons.
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]

		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -0.3 {
			moveX = -1
		} else if leftX > 0.3 {
			moveX = 1
		}

		in.Jump = in.Jump || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		in.Light = in.Light || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightLeft)
		in.Heavy = in.Heavy || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightTop)
		in.Special = in.Special || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightRight)
		in.SwapPrev = in.SwapPrev || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontTopLeft)
		in.SwapNext = in.SwapNext || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontTopRight)
		pause = pause || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	in.MoveX = moveX
	i.Intent = in

	i.PausePressed = pause
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyF1)
	i.SnapshotPressed = inpututil.IsKeyJustPressed(ebiten.KeyF2)
	i.SlowMoPressed = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	i.ResetPressed = inpututil.IsKeyJustPressed(ebiten.KeyR)
}
