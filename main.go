package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/brawl/arena"
)

// clipboardReady gates the F2 snapshot copy; Init fails on headless or
// stripped-down systems and the snapshot then only goes to the log.
var clipboardReady bool

func main() {
	debug := flag.Bool("debug", false, "start with the debug overlay visible")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	arenaName := flag.String("arena", "arena", "arena prefab in prefabs/ (basename, .yaml optional)")
	headless := flag.Bool("headless", false, "run the simulation without a window and print the event log")
	ticks := flag.Int("ticks", 3600, "ticks to simulate with -headless (60 per second)")
	flag.Parse()

	if *headless {
		runHeadless(*arenaName, *ticks)
		return
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		clipboardReady = true
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("brawl")

	game := NewGame(*arenaName, *debug)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// runHeadless soaks the simulation with a passive player: the wave
// chases, the boss runs its intro, and whatever happens lands in the
// event log. cmd/headless drives a scripted player instead.
func runHeadless(arenaName string, ticks int) {
	a, _, err := buildArena(arenaName)
	if err != nil {
		log.Fatalf("failed to build arena %s: %v", arenaName, err)
	}

	for i := 0; i < ticks; i++ {
		a.Update(tickMs, arena.Intent{})
	}

	fmt.Println(a.DebugInfo().String())
	fmt.Println("events:")
	for _, ev := range a.RecentEvents() {
		fmt.Printf("  %8.0fms %-18s %+v\n", ev.At, ev.Topic, ev.Data)
	}
}
