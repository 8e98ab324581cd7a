package arena

import (
	"fmt"
	"sort"
	"strings"
)

// DebugInfo is a display snapshot of the whole simulation, built fresh
// on demand. It owns none of the state it reports.
type DebugInfo struct {
	SimTime    float64
	Scale      float64
	FreezeLeft float64

	Player      PlayerDebug
	Enemies     []EnemyDebug
	Boss        *BossDebug
	Projectiles int
	Corpses     int
	GridCells   int
	Events      []string
}

type PlayerDebug struct {
	State    string
	Health   int
	Max      int
	Meter    int
	X, Y     float64
	Weapon   string
	Swapping bool
}

type EnemyDebug struct {
	ID        int
	Archetype string
	State     string
	Health    int
	X, Y      float64
}

type BossDebug struct {
	Name   string
	State  string
	Health int
	Max    int
	Phase  int
	X, Y   float64
	// Cooldowns holds the remaining ms per attack still cooling down.
	Cooldowns map[string]float64
}

// DebugInfo aggregates per-actor display snapshots.
func (a *Arena) DebugInfo() DebugInfo {
	info := DebugInfo{
		SimTime:     a.simTime,
		Scale:       a.scale,
		FreezeLeft:  a.freezeLeft,
		Projectiles: a.projectiles.Count(),
		Corpses:     a.corpses.Count(),
		GridCells:   a.corpses.Grid().Occupied(),
	}

	px, py := a.player.Position()
	info.Player = PlayerDebug{
		State:    a.player.StateName(),
		Health:   a.player.Health().Current,
		Max:      a.player.Health().Max,
		Meter:    a.player.Meter(),
		X:        px,
		Y:        py,
		Swapping: a.weapons.Swapping(),
	}
	if w := a.weapons.Equipped(); w != nil {
		info.Player.Weapon = w.ID()
	}

	for _, e := range a.enemies {
		x, y := e.Position()
		info.Enemies = append(info.Enemies, EnemyDebug{
			ID:        e.ActorID(),
			Archetype: e.Archetype(),
			State:     e.StateName(),
			Health:    e.Health().Current,
			X:         x,
			Y:         y,
		})
	}

	if b := a.boss; b != nil {
		x, y := b.Position()
		bd := &BossDebug{
			Name:      b.Name(),
			State:     b.StateName(),
			Health:    b.Health().Current,
			Max:       b.Health().Max,
			Phase:     b.Phase(),
			X:         x,
			Y:         y,
			Cooldowns: map[string]float64{},
		}
		for id, until := range b.cooldownUntil {
			if left := until - a.simTime; left > 0 {
				bd.Cooldowns[id] = left
			}
		}
		info.Boss = bd
	}

	for _, rec := range a.recent {
		info.Events = append(info.Events, fmt.Sprintf("%6.0fms %s", rec.At, rec.Topic))
	}
	return info
}

// String renders the snapshot for the overlay and clipboard export.
func (d DebugInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%.0fms scale=%.2f", d.SimTime, d.Scale)
	if d.FreezeLeft > 0 {
		fmt.Fprintf(&b, " freeze=%.0fms", d.FreezeLeft)
	}
	fmt.Fprintf(&b, "\nplayer %s hp=%d/%d meter=%d", d.Player.State, d.Player.Health, d.Player.Max, d.Player.Meter)
	if d.Player.Weapon != "" {
		fmt.Fprintf(&b, " [%s]", d.Player.Weapon)
	}
	if d.Player.Swapping {
		b.WriteString(" swapping")
	}
	fmt.Fprintf(&b, " @(%.0f,%.0f)\n", d.Player.X, d.Player.Y)

	if d.Boss != nil {
		fmt.Fprintf(&b, "boss %s %s hp=%d/%d phase=%d @(%.0f,%.0f)",
			d.Boss.Name, d.Boss.State, d.Boss.Health, d.Boss.Max, d.Boss.Phase, d.Boss.X, d.Boss.Y)
		if len(d.Boss.Cooldowns) > 0 {
			ids := make([]string, 0, len(d.Boss.Cooldowns))
			for id := range d.Boss.Cooldowns {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(&b, " %s:%.0fms", id, d.Boss.Cooldowns[id])
			}
		}
		b.WriteString("\n")
	}

	for _, e := range d.Enemies {
		fmt.Fprintf(&b, "enemy #%d %s %s hp=%d @(%.0f,%.0f)\n", e.ID, e.Archetype, e.State, e.Health, e.X, e.Y)
	}
	fmt.Fprintf(&b, "projectiles=%d corpses=%d grid=%d\n", d.Projectiles, d.Corpses, d.GridCells)

	tail := d.Events
	if len(tail) > 10 {
		tail = tail[len(tail)-10:]
	}
	for _, line := range tail {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
