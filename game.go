package main

import (
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/brawl/arena"
	"github.com/milk9111/brawl/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// tickMs is the fixed simulation step; ebiten drives Update at 60hz.
const tickMs = 1000.0 / 60.0

type Game struct {
	frames int

	arenaName string
	spec      *prefabs.ArenaSpec

	input   *Input
	arena   *arena.Arena
	watcher *prefabs.Watcher

	paused    bool
	slowMo    bool
	showDebug bool
	pauseUI   *ebitenui.UI

	pixel *ebiten.Image
}

func NewGame(arenaName string, debug bool) *Game {
	a, spec, err := buildArena(arenaName)
	if err != nil {
		log.Fatalf("failed to build arena %s: %v", arenaName, err)
	}

	watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
	if err != nil {
		log.Printf("prefab watcher disabled: %v", err)
	}

	g := &Game{
		arenaName: arenaName,
		spec:      spec,
		input:     NewInput(),
		arena:     a,
		watcher:   watcher,
		showDebug: debug,
	}
	g.pauseUI = NewPauseUI(g)
	return g
}

// buildArena loads every prefab from disk (or the embedded copies) and
// assembles the default encounter: one of each archetype plus the boss.
func buildArena(name string) (*arena.Arena, *prefabs.ArenaSpec, error) {
	filename := strings.TrimSuffix(name, ".yaml") + ".yaml"
	spec, err := prefabs.LoadSpec[prefabs.ArenaSpec](filename)
	if err != nil {
		return nil, nil, err
	}
	weapons, err := prefabs.LoadWeaponsSpec()
	if err != nil {
		return nil, nil, err
	}

	a, err := arena.New(arena.Config{Arena: &spec, Weapons: weapons})
	if err != nil {
		return nil, nil, err
	}

	spawnWave(a, &spec)
	return a, &spec, nil
}

// spawnWave places one of each archetype across the floor and the boss on
// the right. Archetypes that fail to load are logged and skipped so one
// broken prefab never takes the whole arena down.
func spawnWave(a *arena.Arena, spec *prefabs.ArenaSpec) {
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
		return
	}
	a.SpawnBoss(*boss, spec.Width*0.92-boss.Width, spec.Height-boss.Height)
}

func (g *Game) Update() error {
	g.frames++

	g.input.Update()

	if g.input.PausePressed {
		g.paused = !g.paused
	}
	if g.input.DebugPressed {
		g.showDebug = !g.showDebug
	}
	if g.input.SnapshotPressed {
		g.snapshot()
	}
	if g.input.SlowMoPressed {
		g.slowMo = !g.slowMo
		if g.slowMo {
			g.arena.SetScale(0.5)
		} else {
			g.arena.SetScale(1)
		}
	}
	if g.input.ResetPressed {
		g.rebuild("reset")
	}

	g.drainWatcher()

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.arena.Update(tickMs, g.input.Intent)
	return nil
}

// rebuild tears the arena down and reloads everything from prefabs.
func (g *Game) rebuild(reason string) {
	a, spec, err := buildArena(g.arenaName)
	if err != nil {
		log.Printf("arena rebuild failed (%s): %v", reason, err)
		return
	}
	g.arena = a
	g.spec = spec
	if g.slowMo {
		g.arena.SetScale(0.5)
	}
	log.Printf("arena rebuilt (%s)", reason)
}

// drainWatcher applies pending prefab edits. Any change rebuilds the
// whole arena; prefabs are cheap enough that partial reloads are not
// worth the bookkeeping.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := ""
	for {
		select {
		case name := <-g.watcher.Events:
			changed = name
		case err := <-g.watcher.Errors:
			log.Printf("prefab watcher: %v", err)
		default:
			if changed != "" {
				g.rebuild(changed)
			}
			return
		}
	}
}

// snapshot copies the debug dump to the clipboard and echoes it to the
// log so it survives even when no clipboard is available.
func (g *Game) snapshot() {
	info := g.arena.DebugInfo().String()
	if clipboardReady {
		clipboard.Write(clipboard.FmtText, []byte(info))
	}
	log.Printf("snapshot:\n%s", info)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawArena(screen)
	g.drawHUD(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
