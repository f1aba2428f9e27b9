// main.go - Main entry point for the Intuition CHIP-8 machine

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionChip8
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("\nIntuition CHIP-8")
	fmt.Println("A CHIP-8 machine in the Intuition Engine family.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionChip8")
	fmt.Println("License: GPLv3 or later")
	fmt.Println()
}

func main() {
	var (
		clockHz    int
		scale      int
		fullscreen bool
		terminal   bool
		disasm     bool
		benchmark  bool
		count      int
		features   bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.IntVar(&clockHz, "hz", DEFAULT_CLOCK_HZ, "CPU clock rate in instructions per second")
	flagSet.IntVar(&scale, "scale", DEFAULT_WINDOW_SCALE, "Window scale factor")
	flagSet.BoolVar(&fullscreen, "fullscreen", false, "Start in fullscreen mode")
	flagSet.BoolVar(&terminal, "terminal", false, "Render to the terminal instead of a window")
	flagSet.BoolVar(&disasm, "disasm", false, "Disassemble the ROM and exit")
	flagSet.BoolVar(&benchmark, "benchmark", false, "Run the CPU benchmark and exit")
	flagSet.IntVar(&count, "count", 10, "Benchmark instruction count in millions")
	flagSet.BoolVar(&features, "features", false, "Print compiled features and exit")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_chip8 [-hz 1000] [-scale 12] [-fullscreen] [-terminal] [-disasm] [-benchmark [-count 10]] rom")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if features {
		printFeatures()
		os.Exit(0)
	}

	filename := flagSet.Arg(0)
	if filename == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	if disasm {
		rom, err := os.ReadFile(filename)
		if err != nil {
			fmt.Printf("Error reading ROM: %v\n", err)
			os.Exit(1)
		}
		if err := Disassemble(rom, os.Stdout); err != nil {
			fmt.Printf("Error disassembling ROM: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if benchmark {
		runBenchmark(filename, count)
		os.Exit(0)
	}

	boilerPlate()

	backend := VIDEO_BACKEND_EBITEN
	if terminal {
		backend = VIDEO_BACKEND_TERMINAL
	}

	var delayTimer, soundTimer Timer

	soundChip, err := NewSoundChip(AUDIO_BACKEND_OTO, &soundTimer)
	if err != nil {
		fmt.Printf("Failed to initialize sound: %v\n", err)
		os.Exit(1)
	}

	videoChip, err := NewVideoChip(backend)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}

	keypad := NewKeyLatch()
	cpu := NewCPU(videoChip, keypad, &delayTimer, &soundTimer)
	cpu.SetClockRate(clockHz)

	if err := cpu.LoadProgram(filename); err != nil {
		fmt.Printf("Error loading program: %v\n", err)
		os.Exit(1)
	}

	// Wire backend input to the machine where the backend supports it.
	output := videoChip.Output()
	if kc, ok := output.(KeypadCapable); ok {
		kc.SetKeypadHandler(func(code uint8, pressed bool) {
			if pressed {
				keypad.Press(code)
			} else if keypad.Pressed(code) {
				keypad.Release()
			}
		})
		kc.SetQuitHandler(func() {
			cpu.Stop()
		})
	}
	if rc, ok := output.(ResetCapable); ok {
		rc.SetHardResetHandler(func() {
			fmt.Println("Hard reset")
			cpu.Reset()
			go cpu.Execute()
		})
	}
	if sc, ok := output.(StatusCapable); ok {
		sc.SetStatusProvider(func() string {
			return fmt.Sprintf("%d Hz  DT %3d  ST %3d", cpu.ClockRate(), delayTimer.Value(), soundTimer.Value())
		})
	}

	ticker := NewTimerTicker(&delayTimer, &soundTimer)
	ticker.Start()

	config := DisplayConfig{
		Width:       DISPLAY_WIDTH,
		Height:      DISPLAY_HEIGHT,
		Scale:       ClampScale(scale),
		RefreshRate: TIMER_HZ,
		PixelFormat: PixelFormatRGBA,
		VSync:       true,
		Fullscreen:  fullscreen,
	}
	if err := videoChip.Start(config); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	soundChip.Start()

	fmt.Printf("Running %s at %d instructions/second\n", filename, clockHz)
	go cpu.Execute()

	<-videoChip.Done()

	cpu.Stop()
	ticker.Stop()
	soundChip.Stop()
}

// runBenchmark executes the ROM flat out with no display or pacing and
// reports millions of instructions per second.
func runBenchmark(filename string, millions int) {
	if millions < 1 {
		millions = 1
	}
	total := millions * 1_000_000

	var delayTimer, soundTimer Timer
	videoChip := newVideoChip(nil)
	keypad := NewKeyLatch()
	cpu := NewCPU(videoChip, keypad, &delayTimer, &soundTimer)

	if err := cpu.LoadProgram(filename); err != nil {
		fmt.Printf("Error loading program: %v\n", err)
		os.Exit(1)
	}

	ticker := NewTimerTicker(&delayTimer, &soundTimer)
	ticker.Start()
	defer ticker.Stop()

	start := time.Now()
	for i := 0; i < total; i++ {
		cpu.ExecuteOpcode()
	}
	elapsed := time.Since(start)

	mips := float64(total) / elapsed.Seconds() / 1_000_000
	fmt.Printf("Executed %dM instructions in %v (%.2f MIPS)\n", millions, elapsed.Round(time.Millisecond), mips)
}
