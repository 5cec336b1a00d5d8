package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
)

//go:embed weapon_configs/*.json
var embeddedWeaponConfigs embed.FS

var globalWeaponLibrary = mustLoadWeaponLibrary()

// weaponLibrary holds the static per-weapon stat table.
type weaponLibrary struct {
	configsByName map[string]*weaponConfig
	names         []string
}

// weaponConfig is species-independent static weapon data.
type weaponConfig struct {
	Name              string
	Damage            float64
	FireInterval      float64 // seconds between successful shots
	MagazineCapacity  int
	ReloadDuration    float64 // seconds
	BaseSpread        float64 // spread cone half-angle, radians
	MaxRange          float64
	MuzzleVelocity    float64
	InstantKillChance float64 // rolled on head hits
}

func (c *weaponConfig) fireIntervalTicks() uint64 {
	return uint64(math.Ceil(c.FireInterval * tickRate))
}

func (c *weaponConfig) reloadTicks() uint64 {
	return uint64(math.Ceil(c.ReloadDuration * tickRate))
}

// weaponState is mutable runtime weapon state owned by a combat context.
type weaponState struct {
	config       *weaponConfig
	ammo         int
	reloading    bool
	reloadTicks  uint64 // countdown, checked each tick
	lastFireTick uint64
	hasFired     bool
}

func newWeaponState(cfg *weaponConfig) *weaponState {
	return &weaponState{config: cfg, ammo: cfg.MagazineCapacity}
}

// advanceReload counts the reload timer down one tick; completion refills the
// magazine and clears the flag.
func (s *weaponState) advanceReload() bool {
	if !s.reloading {
		return false
	}
	if s.reloadTicks > 0 {
		s.reloadTicks--
	}
	if s.reloadTicks > 0 {
		return false
	}
	s.ammo = s.config.MagazineCapacity
	s.reloading = false
	return true
}

type weaponAuthoring struct {
	Weapon            string  `json:"weapon"`
	Damage            float64 `json:"damage"`
	FireInterval      float64 `json:"fire_interval_seconds"`
	MagazineCapacity  int     `json:"magazine_capacity"`
	ReloadDuration    float64 `json:"reload_duration_seconds"`
	BaseSpread        float64 `json:"base_spread_radians"`
	MaxRange          float64 `json:"max_range"`
	MuzzleVelocity    float64 `json:"muzzle_velocity"`
	InstantKillChance float64 `json:"instant_kill_chance"`
}

func mustLoadWeaponLibrary() *weaponLibrary {
	lib, err := loadWeaponLibrary()
	if err != nil {
		panic(err)
	}
	return lib
}

func loadWeaponLibrary() (*weaponLibrary, error) {
	entries, err := fs.ReadDir(embeddedWeaponConfigs, "weapon_configs")
	if err != nil {
		return nil, fmt.Errorf("read weapon configs: %w", err)
	}
	lib := &weaponLibrary{configsByName: make(map[string]*weaponConfig)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := embeddedWeaponConfigs.ReadFile("weapon_configs/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var authoring weaponAuthoring
		if err := json.Unmarshal(data, &authoring); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		cfg, err := compileWeaponConfig(authoring)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", entry.Name(), err)
		}
		lib.configsByName[cfg.Name] = cfg
		lib.names = append(lib.names, cfg.Name)
	}
	if len(lib.names) == 0 {
		return nil, fmt.Errorf("no weapon configs embedded")
	}
	return lib, nil
}

func compileWeaponConfig(authoring weaponAuthoring) (*weaponConfig, error) {
	if authoring.Weapon == "" {
		return nil, fmt.Errorf("weapon config missing weapon name")
	}
	if authoring.Damage <= 0 {
		return nil, fmt.Errorf("weapon %s: damage must be positive", authoring.Weapon)
	}
	if authoring.MagazineCapacity <= 0 {
		return nil, fmt.Errorf("weapon %s: magazine capacity must be positive", authoring.Weapon)
	}
	if authoring.MuzzleVelocity <= 0 {
		return nil, fmt.Errorf("weapon %s: muzzle velocity must be positive", authoring.Weapon)
	}
	cfg := &weaponConfig{
		Name:              authoring.Weapon,
		Damage:            authoring.Damage,
		FireInterval:      authoring.FireInterval,
		MagazineCapacity:  authoring.MagazineCapacity,
		ReloadDuration:    authoring.ReloadDuration,
		BaseSpread:        authoring.BaseSpread,
		MaxRange:          authoring.MaxRange,
		MuzzleVelocity:    authoring.MuzzleVelocity,
		InstantKillChance: clamp(authoring.InstantKillChance, 0, 1),
	}
	if cfg.MaxRange <= 0 {
		cfg.MaxRange = 500.0
	}
	if cfg.ReloadDuration <= 0 {
		cfg.ReloadDuration = 2.0
	}
	return cfg, nil
}

func (l *weaponLibrary) ConfigFor(name string) *weaponConfig {
	if l == nil {
		return nil
	}
	return l.configsByName[name]
}

func (l *weaponLibrary) DefaultConfig() *weaponConfig {
	if l == nil || len(l.names) == 0 {
		return nil
	}
	return l.configsByName[l.names[0]]
}
