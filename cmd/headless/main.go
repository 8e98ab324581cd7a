package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/milk9111/brawl/arena"
	"github.com/milk9111/brawl/prefabs"
)

const tickMs = 1000.0 / 60.0

func main() {
	ticks := flag.Int("ticks", 3600, "simulation ticks to run (60 per second)")
	arenaName := flag.String("arena", "arena", "arena prefab in prefabs/ (basename, .yaml optional)")
	trace := flag.Bool("trace", false, "print a debug snapshot every simulated second")
	flag.Parse()

	a, err := buildArena(*arenaName)
	if err != nil {
		log.Fatalf("failed to build arena %s: %v", *arenaName, err)
	}

	for i := 0; i < *ticks; i++ {
		a.Update(tickMs, scriptedIntent(i))
		if *trace && i%60 == 59 {
			fmt.Println(a.DebugInfo().String())
		}
	}

	fmt.Println(a.DebugInfo().String())
	fmt.Println("events:")
	for _, ev := range a.RecentEvents() {
		fmt.Printf("  %8.0fms %-18s %+v\n", ev.At, ev.Topic, ev.Data)
	}
}

// buildArena mirrors the game shell's loader: the default encounter is
// one of each archetype plus the boss.
func buildArena(name string) (*arena.Arena, error) {
	filename := strings.TrimSuffix(name, ".yaml") + ".yaml"
	spec, err := prefabs.LoadSpec[prefabs.ArenaSpec](filename)
	if err != nil {
		return nil, err
	}
	weapons, err := prefabs.LoadWeaponsSpec()
	if err != nil {
		return nil, err
	}

	a, err := arena.New(arena.Config{Arena: &spec, Weapons: weapons})
	if err != nil {
		return nil, err
	}

	wave := []struct {
		name string
		frac float64
	}{
		{"swarmer", 0.16},
		{"brute", 0.26},
		{"lunger", 0.36},
		{"shieldbearer", 0.64},
		{"lobber", 0.74},
		{"detonator", 0.84},
	}
	for _, w := range wave {
		arch, err := prefabs.LoadArchetypeSpec(w.name)
		if err != nil {
			log.Printf("skipping %s: %v", w.name, err)
			continue
		}
		h := arch.Height
		if h <= 0 {
			h = 32
		}
		a.SpawnEnemy(*arch, spec.Width*w.frac, spec.Height-h)
	}

	boss, err := prefabs.LoadBossSpec("boss_warden")
	if err != nil {
		log.Printf("skipping boss: %v", err)
		return a, nil
	}
	a.SpawnBoss(*boss, spec.Width*0.92-boss.Width, spec.Height-boss.Height)

	return a, nil
}

// scriptedIntent drives a crude attract-mode player: walk back and
// forth across the arena, mash light attacks, and jump now and then.
func scriptedIntent(tick int) arena.Intent {
	in := arena.Intent{}
	phase := tick % 600
	switch {
	case phase < 240:
		in.MoveX = 1
	case phase < 480:
		in.MoveX = -1
	}
	if tick%7 == 0 {
		in.Light = true
	}
	if tick > 0 && tick%180 == 0 {
		in.Jump = true
	}
	if phase == 599 {
		in.Heavy = true
	}
	return in
}
