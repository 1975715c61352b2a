package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Command is a keyboard action.
type Command int

const (
	CmdNone Command = iota
	CmdNewGame
	CmdSave
	CmdLoad
	CmdToggleRandomize
	CmdToggleSound
)

var keyCommands = map[ebiten.Key]Command{
	ebiten.KeyN: CmdNewGame,
	ebiten.KeyS: CmdSave,
	ebiten.KeyL: CmdLoad,
	ebiten.KeyR: CmdToggleRandomize,
	ebiten.KeyM: CmdToggleSound,
}

// InputHandler samples mouse and keyboard once per frame.
type InputHandler struct {
	mouseX, mouseY  int
	leftJustPressed bool
	command         Command
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update updates the input state. Call this once per frame.
func (ih *InputHandler) Update() {
	ih.mouseX, ih.mouseY = ebiten.CursorPosition()
	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	ih.command = CmdNone
	for key, cmd := range keyCommands {
		if inpututil.IsKeyJustPressed(key) {
			ih.command = cmd
			break
		}
	}
}

// Click returns the position of a left click made this frame.
func (ih *InputHandler) Click() (x, y int, ok bool) {
	return ih.mouseX, ih.mouseY, ih.leftJustPressed
}

// Command returns the key command pressed this frame, if any.
func (ih *InputHandler) Command() Command {
	return ih.command
}
