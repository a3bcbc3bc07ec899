// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lassandro/gohack/pkg/machine"
)

// Instructions executed per frame, roughly 3M per second at 60 TPS
const stepsPerFrame = 50000

var specialKeys = []struct {
	key  ebiten.Key
	code uint16
}{
	{ebiten.KeyEnter, machine.KEY_NEWLINE},
	{ebiten.KeyNumpadEnter, machine.KEY_NEWLINE},
	{ebiten.KeyBackspace, machine.KEY_BACKSPACE},
	{ebiten.KeyArrowLeft, machine.KEY_LEFT},
	{ebiten.KeyArrowUp, machine.KEY_UP},
	{ebiten.KeyArrowRight, machine.KEY_RIGHT},
	{ebiten.KeyArrowDown, machine.KEY_DOWN},
	{ebiten.KeyHome, machine.KEY_HOME},
	{ebiten.KeyEnd, machine.KEY_END},
	{ebiten.KeyPageUp, machine.KEY_PAGEUP},
	{ebiten.KeyPageDown, machine.KEY_PAGEDOWN},
	{ebiten.KeyInsert, machine.KEY_INSERT},
	{ebiten.KeyDelete, machine.KEY_DELETE},
	{ebiten.KeyEscape, machine.KEY_ESCAPE},
	{ebiten.KeyF1, machine.KEY_F1},
	{ebiten.KeyF2, machine.KEY_F1 + 1},
	{ebiten.KeyF3, machine.KEY_F1 + 2},
	{ebiten.KeyF4, machine.KEY_F1 + 3},
	{ebiten.KeyF5, machine.KEY_F1 + 4},
	{ebiten.KeyF6, machine.KEY_F1 + 5},
	{ebiten.KeyF7, machine.KEY_F1 + 6},
	{ebiten.KeyF8, machine.KEY_F1 + 7},
	{ebiten.KeyF9, machine.KEY_F1 + 8},
	{ebiten.KeyF10, machine.KEY_F1 + 9},
	{ebiten.KeyF11, machine.KEY_F1 + 10},
	{ebiten.KeyF12, machine.KEY_F1 + 11},
}

// display runs the machine inside the ebiten game loop and doubles as its
// keyboard. Key is only called from Update so no locking is needed.
type display struct {
	mc    *machine.Machine
	limit int
	steps int

	image  *ebiten.Image
	pixels []byte

	typed uint16
	key   uint16
}

func newDisplay(mc *machine.Machine, limit int) *display {
	d := &display{
		mc:     mc,
		limit:  limit,
		pixels: make([]byte, machine.SCREEN_WIDTH*machine.SCREEN_HEIGHT*4),
	}

	mc.Keyboard = d
	return d
}

func (d *display) Key() uint16 {
	return d.key
}

func (d *display) pollKeys() {
	pressed := inpututil.AppendPressedKeys(nil)

	if len(pressed) == 0 {
		d.typed = 0
		d.key = 0
		return
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r >= 0x20 && r < 0x7f {
			d.typed = uint16(r)
		}
	}

	for _, special := range specialKeys {
		if ebiten.IsKeyPressed(special.key) {
			d.key = special.code
			return
		}
	}

	d.key = d.typed
}

func (d *display) Update() error {
	d.pollKeys()

	for i := 0; i < stepsPerFrame; i++ {
		if shouldexit {
			return ebiten.Termination
		}

		if d.mc.Halted() || (d.limit != 0 && d.steps >= d.limit) {
			break
		}

		d.mc.Step()
		d.steps++
	}

	if shouldexit {
		return ebiten.Termination
	}

	return nil
}

func (d *display) render() {
	ram := &d.mc.State.RAM
	i := 0

	for y := 0; y < machine.SCREEN_HEIGHT; y++ {
		row := int(machine.MEMSPACE_SCREEN) + y*machine.SCREEN_STRIDE

		for w := 0; w < machine.SCREEN_STRIDE; w++ {
			word := ram[row+w]

			// Bit 0 is the leftmost pixel of the word
			for b := 0; b < 16; b++ {
				shade := byte(0xff)
				if (word>>uint(b))&0x1 == 1 {
					shade = 0x00
				}

				d.pixels[i+0] = shade
				d.pixels[i+1] = shade
				d.pixels[i+2] = shade
				d.pixels[i+3] = 0xff
				i += 4
			}
		}
	}
}

func (d *display) Draw(screen *ebiten.Image) {
	if d.image == nil {
		d.image = ebiten.NewImage(machine.SCREEN_WIDTH, machine.SCREEN_HEIGHT)
	}

	d.render()
	d.image.WritePixels(d.pixels)
	screen.DrawImage(d.image, nil)
}

func (d *display) Layout(outsideWidth, outsideHeight int) (int, int) {
	return machine.SCREEN_WIDTH, machine.SCREEN_HEIGHT
}

func runDisplay(mc *machine.Machine, title string, scale, limit int) error {
	if scale < 1 {
		scale = 1
	}

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(machine.SCREEN_WIDTH*scale, machine.SCREEN_HEIGHT*scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(newDisplay(mc, limit))
}
