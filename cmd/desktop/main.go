package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/asm"
	"gochip8/pkg/config"
	"gochip8/pkg/cpu"
)

// desktopKeys maps the QWERTY block onto the hex pad, see console.KeyMap.
var desktopKeys = map[ebiten.Key]uint8{
	ebiten.KeyDigit1: 0x1, ebiten.KeyDigit2: 0x2, ebiten.KeyDigit3: 0x3, ebiten.KeyDigit4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

type Game struct {
	vm     *cpu.CPU
	logger *log.Logger
	scale  int

	frame    cpu.Display
	frameImg *ebiten.Image // reused 64×32 canvas
	buzzer   *audio.Player
	overlay  bool
}

// pollKeys builds the key state for one cycle from a pressed predicate.
func pollKeys(pressed func(ebiten.Key) bool) cpu.Keys {
	var keys cpu.Keys
	for k, v := range desktopKeys {
		if pressed(k) {
			keys.Press(v)
		}
	}
	return keys
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.overlay = !g.overlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		name := fmt.Sprintf("gochip8-%d.png", g.vm.Cycles)
		if err := g.vm.SaveScreenshot(name, g.scale); err != nil {
			g.logger.Error("Saving screenshot failed", log.Err(err))
		} else {
			g.logger.Info("Saved screenshot", log.String("file", name))
		}
	}

	// One cycle per tick, the tick rate is the machine cadence.
	g.frame = g.vm.Step(pollKeys(ebiten.IsKeyPressed))
	g.updateBuzzer()
	return nil
}

func (g *Game) updateBuzzer() {
	if g.buzzer == nil {
		return
	}
	switch on := g.vm.BuzzerActive(); {
	case on && !g.buzzer.IsPlaying():
		g.buzzer.Play()
	case !on && g.buzzer.IsPlaying():
		g.buzzer.Pause()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frameImg == nil {
		g.frameImg = ebiten.NewImage(cpu.DisplayWidth, cpu.DisplayHeight)
	}
	g.frameImg.WritePixels(g.frame.FramebufferRGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.frameImg, op)

	if g.overlay {
		msg := fmt.Sprintf("PC %03X  I %03X  cycles %d\nV %X", g.vm.PC, g.vm.I, g.vm.Cycles, g.vm.V[:])
		ebitenutil.DebugPrintAt(screen, msg, 2, 2)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cpu.DisplayWidth * g.scale, cpu.DisplayHeight * g.scale
}

func main() {
	flags := flag.NewFlagSet("desktop", flag.ExitOnError)
	debug := flags.Bool("debug", false, "enable debug logging of every executed instruction")
	scale := flags.Int("scale", config.DefaultScale, "window scale")
	mute := flags.Bool("mute", false, "disable the buzzer")
	_ = flags.Parse(os.Args[1:])

	logger := config.CreateLogger(*debug, false)
	if flags.NArg() != 1 || *scale < 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [-debug] [-mute] [-scale n] <rom>")
		os.Exit(2)
	}

	image, err := asm.LoadImage(flags.Arg(0))
	if err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	vm := cpu.NewCPU(logger)
	if err := vm.LoadProgram(image); err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	game := &Game{vm: vm, logger: logger, scale: *scale}
	if !*mute {
		ctx := audio.NewContext(sampleRate)
		game.buzzer, err = ctx.NewPlayer(newSquareWave(sampleRate, buzzerFrequency))
		if err != nil {
			logger.Fatal("Creating buzzer failed", log.Err(err))
		}
	}

	ebiten.SetTPS(int(time.Second / vm.Speed()))
	ebiten.SetWindowSize(cpu.DisplayWidth * *scale, cpu.DisplayHeight * *scale)
	ebiten.SetWindowTitle("gochip8 - " + filepath.Base(flags.Arg(0)))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("Running game failed", log.Err(err))
	}
}
