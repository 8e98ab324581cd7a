package prefabs

import "testing"

func TestLoadArenaSpec(t *testing.T) {
	spec, err := LoadArenaSpec()
	if err != nil {
		t.Fatalf("LoadArenaSpec: %v", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		t.Fatalf("arena dimensions = %vx%v", spec.Width, spec.Height)
	}
	if spec.Gravity <= 0 {
		t.Fatalf("gravity = %v, want > 0 (y-down)", spec.Gravity)
	}
	if spec.Player.Health <= 0 || spec.Player.MoveSpeed <= 0 {
		t.Fatalf("player spec incomplete: %+v", spec.Player)
	}
	if spec.Corpses.CellWidth <= 0 || spec.Corpses.CellHeight <= 0 {
		t.Fatalf("corpse cells = %vx%v", spec.Corpses.CellWidth, spec.Corpses.CellHeight)
	}
	if spec.Corpses.Capacity <= 0 || spec.Corpses.SnapMs <= 0 {
		t.Fatalf("corpse tuning incomplete: %+v", spec.Corpses)
	}
	if len(spec.Combo.Scale) == 0 || spec.Combo.WindowMs <= 0 {
		t.Fatalf("combo tuning incomplete: %+v", spec.Combo)
	}
}

func TestLoadArchetypeSpecs(t *testing.T) {
	names := []string{"swarmer", "brute", "lunger", "shieldbearer", "lobber", "detonator"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadArchetypeSpec(name)
			if err != nil {
				t.Fatalf("LoadArchetypeSpec(%q): %v", name, err)
			}
			if spec.Archetype != name {
				t.Errorf("archetype = %q, want %q", spec.Archetype, name)
			}
			if spec.Health <= 0 {
				t.Errorf("health = %d, want > 0", spec.Health)
			}
			if spec.Width <= 0 || spec.Height <= 0 {
				t.Errorf("size = %vx%v", spec.Width, spec.Height)
			}
			if spec.HitstunMs <= 0 {
				t.Errorf("hitstun_ms = %v, want > 0", spec.HitstunMs)
			}
		})
	}
}

func TestArchetypeVariantBlocks(t *testing.T) {
	lunger, err := LoadArchetypeSpec("lunger")
	if err != nil {
		t.Fatal(err)
	}
	if lunger.Lunger == nil || lunger.Lunger.ChargeSpeed <= 0 || lunger.Lunger.ChargeMs <= 0 {
		t.Fatalf("lunger block incomplete: %+v", lunger.Lunger)
	}

	shield, err := LoadArchetypeSpec("shieldbearer")
	if err != nil {
		t.Fatal(err)
	}
	if shield.Shield == nil || shield.Shield.GuardBreakThreshold <= 0 {
		t.Fatalf("shield block incomplete: %+v", shield.Shield)
	}

	lobber, err := LoadArchetypeSpec("lobber")
	if err != nil {
		t.Fatal(err)
	}
	if lobber.Lobber == nil || lobber.Lobber.ProjectileSpeed <= 0 {
		t.Fatalf("lobber block incomplete: %+v", lobber.Lobber)
	}
	if lobber.Lobber.MinRange >= lobber.AttackRange {
		t.Fatalf("lobber min_range %v must sit below attack_range %v", lobber.Lobber.MinRange, lobber.AttackRange)
	}

	det, err := LoadArchetypeSpec("detonator")
	if err != nil {
		t.Fatal(err)
	}
	if det.Detonator == nil || det.Detonator.ExplosionRadius <= 0 || det.Detonator.FuseMs <= 0 {
		t.Fatalf("detonator block incomplete: %+v", det.Detonator)
	}
}

func TestLoadBossSpec(t *testing.T) {
	spec, err := LoadBossSpec("boss_warden")
	if err != nil {
		t.Fatalf("LoadBossSpec: %v", err)
	}
	if len(spec.Phases) == 0 {
		t.Fatal("boss has no phases")
	}
	if spec.Phases[0].Threshold != 1.0 {
		t.Fatalf("phase 0 threshold = %v, want 1.0", spec.Phases[0].Threshold)
	}
	for i := 1; i < len(spec.Phases); i++ {
		if spec.Phases[i].Threshold >= spec.Phases[i-1].Threshold {
			t.Fatalf("phase thresholds not descending: %v then %v", spec.Phases[i-1].Threshold, spec.Phases[i].Threshold)
		}
	}

	byID := map[string]BossAttackSpec{}
	for _, atk := range spec.Attacks {
		if atk.ID == "" || atk.Kind == "" {
			t.Fatalf("attack missing id/kind: %+v", atk)
		}
		if atk.DurationMs <= 0 || atk.CooldownMs <= 0 {
			t.Fatalf("attack %q missing timing: %+v", atk.ID, atk)
		}
		byID[atk.ID] = atk
	}
	for i, phase := range spec.Phases {
		if len(phase.Attacks) == 0 {
			t.Fatalf("phase %d has no attacks", i)
		}
		for _, id := range phase.Attacks {
			if _, ok := byID[id]; !ok {
				t.Fatalf("phase %d references unknown attack %q", i, id)
			}
		}
	}

	for _, atk := range spec.Attacks {
		if atk.Kind != "script" {
			continue
		}
		if atk.Script == "" {
			t.Fatalf("scripted attack %q names no script", atk.ID)
		}
		if _, err := LoadScript(atk.Script); err != nil {
			t.Fatalf("script %q for attack %q: %v", atk.Script, atk.ID, err)
		}
	}

	if spec.UnlocksWeapon == "" {
		t.Fatal("boss unlocks no weapon")
	}
}

func TestLoadWeaponsSpec(t *testing.T) {
	spec, err := LoadWeaponsSpec()
	if err != nil {
		t.Fatalf("LoadWeaponsSpec: %v", err)
	}
	if len(spec.Weapons) < 2 {
		t.Fatalf("weapon roster has %d entries, want at least 2", len(spec.Weapons))
	}
	if spec.SwapMs <= 0 {
		t.Fatalf("swap_ms = %v", spec.SwapMs)
	}

	slots := []string{"light1", "light2", "light3", "heavy", "air", "spin", "special"}
	ids := map[string]bool{}
	for _, w := range spec.Weapons {
		if w.ID == "" {
			t.Fatal("weapon with empty id")
		}
		ids[w.ID] = true
		for _, slot := range slots {
			atk, ok := w.Slots[slot]
			if !ok {
				t.Fatalf("weapon %q missing slot %q", w.ID, slot)
			}
			if atk.Damage <= 0 {
				t.Fatalf("weapon %q slot %q damage = %d", w.ID, slot, atk.Damage)
			}
			if atk.CancelWindow < 0 || atk.CancelWindow > 1 {
				t.Fatalf("weapon %q slot %q cancel_window = %v", w.ID, slot, atk.CancelWindow)
			}
			for _, next := range atk.ComboInto {
				if _, ok := w.Slots[next]; !ok {
					t.Fatalf("weapon %q slot %q chains to unknown slot %q", w.ID, slot, next)
				}
			}
		}
	}
	if !ids[spec.Starting] {
		t.Fatalf("starting weapon %q not in roster", spec.Starting)
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	if _, err := LoadSpec[ArenaSpec]("does_not_exist.yaml"); err == nil {
		t.Fatal("loading a missing prefab succeeded")
	}
}
