// Package telemetry parses and normalizes the game-state exports written by
// the client-side plugin. Exports arrive in two dialects: a long-name form
// and a compact short-name form (t, p, wx, sx, ...) used to keep the export
// file small. Both normalize into the same Record.
package telemetry

import (
	"strings"
	"time"

	json "github.com/json-iterator/go"

	"github.com/vex0ray/spyglass/api/schemas"
)

// DefaultMaxAge is how old an export may be before it is considered stale.
const DefaultMaxAge = 3 * time.Second

// IdleAnimation is the animation ID reported while the avatar is idle.
const IdleAnimation = -1

// Record is a normalized game-state export.
type Record struct {
	Timestamp        int64
	GameTick         int64
	Source           string
	Player           *Player
	Camera           *Camera
	NPCs             []NPC
	Inventory        []Item
	Skills           map[string]Skill
	TutorialProgress int
}

// Player holds the avatar's position and animation. Coordinates are pointers
// so an absent value is distinguishable from zero.
type Player struct {
	WorldX    *int
	WorldY    *int
	Plane     int
	ScreenX   *int
	ScreenY   *int
	Animation int
	Name      string
}

// Camera holds the camera orientation in client yaw units (0..2047).
type Camera struct {
	Yaw              int
	Pitch            int
	CompassDirection string
}

// NPC is a nearby non-player character.
type NPC struct {
	ID       int
	Name     string
	WorldX   *int
	WorldY   *int
	ScreenX  *int
	ScreenY  *int
	OnScreen bool
}

// Item is one occupied inventory slot.
type Item struct {
	Slot     int
	ID       int
	Quantity int
}

// Skill is one skill reading from the export.
type Skill struct {
	Level int    `json:"level"`
	XP    uint64 `json:"xp"`
}

// Raw export shapes. Short and long keys decode side by side and the
// normalizer picks whichever is present, short name first.

type rawExport struct {
	T         *int64           `json:"t"`
	Timestamp *int64           `json:"timestamp"`
	Tick      *int64           `json:"tick"`
	GameTick  *int64           `json:"game_tick"`
	Source    string           `json:"source"`
	P         *rawPlayer       `json:"p"`
	Player    *rawPlayer       `json:"player"`
	C         *rawCamera       `json:"c"`
	Camera    *rawCamera       `json:"camera"`
	NPCs      []rawNPC         `json:"npcs"`
	Inv       []rawItem        `json:"inv"`
	Inventory []rawItem        `json:"inventory"`
	SK        map[string]Skill `json:"sk"`
	Skills    map[string]Skill `json:"skills"`
	TP        *int             `json:"tp"`
	Progress  *int             `json:"tutorial_progress"`
}

type rawPlayer struct {
	WX        *int   `json:"wx"`
	WorldX    *int   `json:"world_x"`
	WY        *int   `json:"wy"`
	WorldY    *int   `json:"world_y"`
	WZ        *int   `json:"wz"`
	Plane     *int   `json:"plane"`
	SX        *int   `json:"sx"`
	ScreenX   *int   `json:"screen_x"`
	SY        *int   `json:"sy"`
	ScreenY   *int   `json:"screen_y"`
	A         *int   `json:"a"`
	Animation *int   `json:"animation"`
	Name      string `json:"name"`
}

type rawCamera struct {
	Y     *int `json:"y"`
	Yaw   *int `json:"yaw"`
	P     *int `json:"p"`
	Pitch *int `json:"pitch"`
}

type rawNPC struct {
	ID       int     `json:"id"`
	N        *string `json:"n"`
	Name     *string `json:"name"`
	WX       *int    `json:"wx"`
	WorldX   *int    `json:"world_x"`
	WY       *int    `json:"wy"`
	WorldY   *int    `json:"world_y"`
	SX       *int    `json:"sx"`
	ScreenX  *int    `json:"screen_x"`
	SY       *int    `json:"sy"`
	ScreenY  *int    `json:"screen_y"`
	V        *bool   `json:"v"`
	OnScreen *bool   `json:"on_screen"`
}

type rawItem struct {
	S        *int `json:"s"`
	Slot     *int `json:"slot"`
	ID       int  `json:"id"`
	Q        *int `json:"q"`
	Quantity *int `json:"quantity"`
}

// ParseExport decodes an export payload in either dialect into a Record.
func ParseExport(data []byte) (*Record, error) {
	var raw rawExport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return normalize(&raw), nil
}

func normalize(raw *rawExport) *Record {
	rec := &Record{
		Timestamp:        pickInt64(raw.T, raw.Timestamp, 0),
		GameTick:         pickInt64(raw.Tick, raw.GameTick, 0),
		Source:           raw.Source,
		TutorialProgress: pickInt(raw.TP, raw.Progress, 0),
	}

	if p := firstPlayer(raw.P, raw.Player); p != nil {
		rec.Player = &Player{
			WorldX:    firstIntPtr(p.WX, p.WorldX),
			WorldY:    firstIntPtr(p.WY, p.WorldY),
			Plane:     pickInt(p.WZ, p.Plane, 0),
			ScreenX:   firstIntPtr(p.SX, p.ScreenX),
			ScreenY:   firstIntPtr(p.SY, p.ScreenY),
			Animation: pickInt(p.A, p.Animation, IdleAnimation),
			Name:      p.Name,
		}
	}

	if c := firstCamera(raw.C, raw.Camera); c != nil {
		yaw := pickInt(c.Y, c.Yaw, 0)
		rec.Camera = &Camera{
			Yaw:              yaw,
			Pitch:            pickInt(c.P, c.Pitch, 0),
			CompassDirection: YawToCompass(yaw),
		}
	}

	for _, n := range raw.NPCs {
		npc := NPC{
			ID:      n.ID,
			WorldX:  firstIntPtr(n.WX, n.WorldX),
			WorldY:  firstIntPtr(n.WY, n.WorldY),
			ScreenX: firstIntPtr(n.SX, n.ScreenX),
			ScreenY: firstIntPtr(n.SY, n.ScreenY),
		}
		if n.N != nil {
			npc.Name = *n.N
		} else if n.Name != nil {
			npc.Name = *n.Name
		}
		if n.V != nil {
			npc.OnScreen = *n.V
		} else if n.OnScreen != nil {
			npc.OnScreen = *n.OnScreen
		}
		rec.NPCs = append(rec.NPCs, npc)
	}

	items := raw.Inv
	if items == nil {
		items = raw.Inventory
	}
	for _, it := range items {
		rec.Inventory = append(rec.Inventory, Item{
			Slot:     pickInt(it.S, it.Slot, 0),
			ID:       it.ID,
			Quantity: pickInt(it.Q, it.Quantity, 1),
		})
	}

	if raw.SK != nil {
		rec.Skills = raw.SK
	} else {
		rec.Skills = raw.Skills
	}
	return rec
}

var compassDirections = [8]string{"S", "SW", "W", "NW", "N", "NE", "E", "SE"}

// YawToCompass maps a client camera yaw to its compass sector.
// Yaw 0 faces south, 512 west, 1024 north, 1536 east.
func YawToCompass(yaw int) string {
	normalized := ((yaw+128)%2048 + 2048) % 2048
	return compassDirections[normalized/256]
}

// FreshAt reports whether the record was exported within maxAge of now.
func (r *Record) FreshAt(now time.Time, maxAge time.Duration) bool {
	if r == nil {
		return false
	}
	age := now.UnixMilli() - r.Timestamp
	return age < maxAge.Milliseconds()
}

// Fresh is FreshAt against the current clock.
func (r *Record) Fresh(maxAge time.Duration) bool {
	return r.FreshAt(time.Now(), maxAge)
}

// AnimationID returns the avatar's animation, IdleAnimation when unknown.
func (r *Record) AnimationID() int {
	if r == nil || r.Player == nil {
		return IdleAnimation
	}
	return r.Player.Animation
}

// Idle reports whether the avatar has no running animation.
func (r *Record) Idle() bool {
	return r.AnimationID() == IdleAnimation
}

// FindNPC returns the first NPC whose name contains the query,
// case-insensitively. Nil when nothing matches.
func (r *Record) FindNPC(name string) *NPC {
	if r == nil {
		return nil
	}
	query := strings.ToLower(name)
	for i := range r.NPCs {
		if r.NPCs[i].Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(r.NPCs[i].Name), query) {
			return &r.NPCs[i]
		}
	}
	return nil
}

// FindNPCOnScreen resolves an NPC name to screen coordinates. ok is false
// when the NPC is unknown, off screen, or has no projected position.
func (r *Record) FindNPCOnScreen(name string) (x, y int, ok bool) {
	npc := r.FindNPC(name)
	if npc == nil || !npc.OnScreen || npc.ScreenX == nil || npc.ScreenY == nil {
		return 0, 0, false
	}
	return *npc.ScreenX, *npc.ScreenY, true
}

// HasItem reports whether the inventory holds the given item ID.
func (r *Record) HasItem(itemID int) bool {
	if r == nil {
		return false
	}
	for _, it := range r.Inventory {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// SkillLevel returns the recorded level for a skill, 0 when unknown.
// Skill names are stored lowercased in the export.
func (r *Record) SkillLevel(name string) int {
	if r == nil {
		return 0
	}
	return r.Skills[strings.ToLower(name)].Level
}

// Info condenses the record into the snapshot telemetry section. A nil or
// stale record yields the zero section with Fresh false, and consumers must
// not trust any other field in that case.
func (r *Record) Info(now time.Time, maxAge time.Duration) schemas.TelemetryInfo {
	if !r.FreshAt(now, maxAge) {
		return schemas.TelemetryInfo{Fresh: false}
	}

	info := schemas.TelemetryInfo{
		Fresh:            true,
		TutorialProgress: r.TutorialProgress,
		InventoryCount:   len(r.Inventory),
		CameraDirection:  "unknown",
	}
	if r.Camera != nil {
		info.CameraDirection = r.Camera.CompassDirection
	}
	if p := r.Player; p != nil {
		if p.ScreenX != nil && p.ScreenY != nil {
			info.PlayerScreen = &schemas.ScreenCoord{X: *p.ScreenX, Y: *p.ScreenY}
		}
		if p.WorldX != nil && p.WorldY != nil {
			info.PlayerWorld = &schemas.WorldCoord{X: *p.WorldX, Y: *p.WorldY, Plane: p.Plane}
		}
	}
	for _, npc := range r.NPCs {
		if !npc.OnScreen || npc.ScreenX == nil || npc.ScreenY == nil {
			continue
		}
		info.NPCsOnScreen = append(info.NPCsOnScreen, schemas.NPCInfo{
			Name: npc.Name,
			ID:   npc.ID,
			X:    *npc.ScreenX,
			Y:    *npc.ScreenY,
		})
	}
	return info
}

func pickInt(short, long *int, def int) int {
	if short != nil {
		return *short
	}
	if long != nil {
		return *long
	}
	return def
}

func pickInt64(short, long *int64, def int64) int64 {
	if short != nil {
		return *short
	}
	if long != nil {
		return *long
	}
	return def
}

func firstIntPtr(short, long *int) *int {
	if short != nil {
		return short
	}
	return long
}

func firstPlayer(short, long *rawPlayer) *rawPlayer {
	if short != nil {
		return short
	}
	return long
}

func firstCamera(short, long *rawCamera) *rawCamera {
	if short != nil {
		return short
	}
	return long
}
