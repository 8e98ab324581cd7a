// Package prefabs loads the YAML specs and tengo scripts that tune the
// simulation. Specs embed into the binary; a prefabs/ directory next to
// the executable overrides them for live editing.
package prefabs

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads and unmarshals a prefab file into T.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ArchetypeSpec configures one enemy archetype. Distances are pixels,
// speeds px/s, and every field with an _ms suffix is milliseconds.
type ArchetypeSpec struct {
	Name      string `yaml:"name"`
	Archetype string `yaml:"archetype"`

	Health         int     `yaml:"health"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	MoveSpeed      float64 `yaml:"move_speed"`
	ChaseSpeed     float64 `yaml:"chase_speed"`
	DetectionRange float64 `yaml:"detection_range"`
	AttackRange    float64 `yaml:"attack_range"`
	PatrolDistance float64 `yaml:"patrol_distance"`
	CooldownMs     float64 `yaml:"cooldown_ms"`
	HitstunMs      float64 `yaml:"hitstun_ms"`
	FadeMs         float64 `yaml:"fade_ms"`

	Attack MeleeSpec `yaml:"attack"`

	Lunger    *LungerSpec    `yaml:"lunger,omitempty"`
	Shield    *ShieldSpec    `yaml:"shield,omitempty"`
	Lobber    *LobberSpec    `yaml:"lobber,omitempty"`
	Detonator *DetonatorSpec `yaml:"detonator,omitempty"`
}

// MeleeSpec is the shared three-phase melee attack shape.
type MeleeSpec struct {
	Damage     int     `yaml:"damage"`
	WindupMs   float64 `yaml:"windup_ms"`
	ActiveMs   float64 `yaml:"active_ms"`
	RecoveryMs float64 `yaml:"recovery_ms"`
	Reach      float64 `yaml:"reach"`
	KnockbackX float64 `yaml:"knockback_x"`
	KnockbackY float64 `yaml:"knockback_y"`
	HitstunMs  float64 `yaml:"hitstun_ms"`
	HitstopMs  float64 `yaml:"hitstop_ms"`
}

type LungerSpec struct {
	ChargeSpeed float64 `yaml:"charge_speed"`
	WindupMs    float64 `yaml:"windup_ms"`
	ChargeMs    float64 `yaml:"charge_ms"`
	RecoveryMs  float64 `yaml:"recovery_ms"`
}

type ShieldSpec struct {
	// GuardBreakThreshold is the damage at or above which a blocked hit
	// staggers instead of being negated.
	GuardBreakThreshold int     `yaml:"guard_break_threshold"`
	BashDelayMs         float64 `yaml:"bash_delay_ms"`
	BashDurationMs      float64 `yaml:"bash_duration_ms"`
	StaggerMs           float64 `yaml:"stagger_ms"`
}

type LobberSpec struct {
	MinRange        float64 `yaml:"min_range"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	ArcFactor       float64 `yaml:"arc_factor"`
	WindupMs        float64 `yaml:"windup_ms"`
	RecoveryMs      float64 `yaml:"recovery_ms"`
	ProjectileSize  float64 `yaml:"projectile_size"`
	ProjectileTTLMs float64 `yaml:"projectile_ttl_ms"`
}

type DetonatorSpec struct {
	TriggerRange    float64 `yaml:"trigger_range"`
	FuseMs          float64 `yaml:"fuse_ms"`
	ExplosionRadius float64 `yaml:"explosion_radius"`
	ExplosionDamage int     `yaml:"explosion_damage"`
	Knockback       float64 `yaml:"knockback"`
}

// LoadArchetypeSpec loads an enemy archetype by prefab name
// (e.g. "swarmer" reads swarmer.yaml).
func LoadArchetypeSpec(name string) (*ArchetypeSpec, error) {
	spec, err := LoadSpec[ArchetypeSpec](yamlName(name))
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// BossSpec configures the boss fight: phase thresholds as descending
// health fractions, the attacks each phase may select, and global timing.
type BossSpec struct {
	Name   string `yaml:"name"`
	Health int    `yaml:"health"`

	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MoveSpeed float64 `yaml:"move_speed"`

	IdealRangeMin float64 `yaml:"ideal_range_min"`
	IdealRangeMax float64 `yaml:"ideal_range_max"`

	HitstunResistance  float64 `yaml:"hitstun_resistance"`
	StaggerThresholdMs float64 `yaml:"stagger_threshold_ms"`
	StaggerMs          float64 `yaml:"stagger_ms"`

	IntroMs           float64 `yaml:"intro_ms"`
	PhaseTransitionMs float64 `yaml:"phase_transition_ms"`
	PhaseInvulnMs     float64 `yaml:"phase_invuln_ms"`
	GlobalCooldownMs  float64 `yaml:"global_cooldown_ms"`
	FadeMs            float64 `yaml:"fade_ms"`

	UnlocksWeapon string `yaml:"unlocks_weapon"`

	Phases  []BossPhaseSpec  `yaml:"phases"`
	Attacks []BossAttackSpec `yaml:"attacks"`
}

type BossPhaseSpec struct {
	// Threshold is the health fraction at or below which this phase is
	// eligible. Phase zero should carry 1.0.
	Threshold float64  `yaml:"threshold"`
	Attacks   []string `yaml:"attacks"`
}

// BossAttackSpec describes one attack pattern. Kind selects the native
// implementation ("slam", "rush", "volley") or "script" with Script
// naming a tengo file under prefabs/scripts/.
type BossAttackSpec struct {
	ID         string  `yaml:"id"`
	Kind       string  `yaml:"kind"`
	Script     string  `yaml:"script"`
	DurationMs float64 `yaml:"duration_ms"`
	CooldownMs float64 `yaml:"cooldown_ms"`
	Damage     int     `yaml:"damage"`
	WindupMs   float64 `yaml:"windup_ms"`
	ActiveMs   float64 `yaml:"active_ms"`
	Reach      float64 `yaml:"reach"`
	Speed      float64 `yaml:"speed"`
	Count      int     `yaml:"count"`
	KnockbackX float64 `yaml:"knockback_x"`
	KnockbackY float64 `yaml:"knockback_y"`
	HitstunMs  float64 `yaml:"hitstun_ms"`
	HitstopMs  float64 `yaml:"hitstop_ms"`
}

func LoadBossSpec(name string) (*BossSpec, error) {
	spec, err := LoadSpec[BossSpec](yamlName(name))
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// WeaponsSpec is the full weapon roster plus swap tuning.
type WeaponsSpec struct {
	Starting string       `yaml:"starting"`
	SwapMs   float64      `yaml:"swap_ms"`
	Weapons  []WeaponSpec `yaml:"weapons"`
}

type WeaponSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Slots maps attack slot names (light1, light2, light3, heavy, air,
	// spin, special) to their attack data.
	Slots map[string]WeaponAttackSpec `yaml:"slots"`
}

type WeaponAttackSpec struct {
	StartupMs  float64 `yaml:"startup_ms"`
	ActiveMs   float64 `yaml:"active_ms"`
	RecoveryMs float64 `yaml:"recovery_ms"`
	Damage     int     `yaml:"damage"`
	Reach      float64 `yaml:"reach"`
	KnockbackX float64 `yaml:"knockback_x"`
	KnockbackY float64 `yaml:"knockback_y"`
	HitstunMs  float64 `yaml:"hitstun_ms"`
	HitstopMs  float64 `yaml:"hitstop_ms"`
	// ComboInto lists the slots this attack may chain to inside its
	// cancel window.
	ComboInto []string `yaml:"combo_into"`
	// CancelWindow is the trailing fraction (0..1) of the attack during
	// which chaining is allowed.
	CancelWindow float64 `yaml:"cancel_window"`
	MeterGain    int     `yaml:"meter_gain"`
}

func LoadWeaponsSpec() (*WeaponsSpec, error) {
	spec, err := LoadSpec[WeaponsSpec]("weapons.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ArenaSpec tunes the room, the player, corpse settling, and hit scaling.
type ArenaSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Gravity float64 `yaml:"gravity"`

	HitstopMaxMs float64 `yaml:"hitstop_max_ms"`

	Player  PlayerSpec `yaml:"player"`
	Corpses CorpseSpec `yaml:"corpses"`
	Combo   ComboSpec  `yaml:"combo"`
}

type PlayerSpec struct {
	Health        int     `yaml:"health"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	MoveSpeed     float64 `yaml:"move_speed"`
	JumpSpeed     float64 `yaml:"jump_speed"`
	HurtIFramesMs float64 `yaml:"hurt_iframes_ms"`
	MeterMax      int     `yaml:"meter_max"`
}

type CorpseSpec struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	// SnapDistanceX/Y gate how far a falling corpse may be from an open
	// cell's center before it starts snapping into it.
	SnapDistanceX float64 `yaml:"snap_distance_x"`
	SnapDistanceY float64 `yaml:"snap_distance_y"`
	SnapMs        float64 `yaml:"snap_ms"`
	SearchRadius  int     `yaml:"search_radius"`
	Capacity      int     `yaml:"capacity"`
	DecayDelayMs  float64 `yaml:"decay_delay_ms"`
	DecayFadeMs   float64 `yaml:"decay_fade_ms"`
}

type ComboSpec struct {
	Scale    []float64 `yaml:"scale"`
	WindowMs float64   `yaml:"window_ms"`
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec]("arena.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func yamlName(name string) string {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return name
	}
	return name + ".yaml"
}
