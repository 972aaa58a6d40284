package schemas

// -- Snapshot Schema --
//
// SnapshotSchema is the canonical perception record handed to the decision
// layer. Every field has a fixed JSON name; downstream consumers parse these
// records long after this process has exited, so renames are breaking.

// SnapshotSchema is one normalized observation of the game client.
type SnapshotSchema struct {
	CaptureID string        `json:"capture_id"`
	Timestamp string        `json:"timestamp"`
	Version   int           `json:"version"`
	Stale     bool          `json:"stale"`
	SessionID string        `json:"session_id"`
	Client    ClientInfo    `json:"client"`
	ROI       ROIInfo       `json:"roi"`
	UI        UIInfo        `json:"ui"`
	OCR       []OCREntry    `json:"ocr"`
	Cues      CuesInfo      `json:"cues"`
	Derived   DerivedInfo   `json:"derived"`
	Account   AccountInfo   `json:"account"`
	Telemetry TelemetryInfo `json:"telemetry"`
}

// ClientInfo describes the client window the frame was captured from.
type ClientInfo struct {
	WindowTitle      string  `json:"window_title"`
	Bounds           Region  `json:"bounds"`
	Focused          bool    `json:"focused"`
	Scale            float64 `json:"scale"`
	FPS              int     `json:"fps"`
	CaptureLatencyMS uint64  `json:"capture_latency_ms"`
}

// ROIInfo fixes the sub-rectangles perception reads from.
type ROIInfo struct {
	Minimap   Region `json:"minimap"`
	Inventory Region `json:"inventory"`
	Chatbox   Region `json:"chatbox"`
	GameView  Region `json:"game_view"`
}

// UIInfo captures interface state visible in the frame.
type UIInfo struct {
	OpenInterface   string      `json:"open_interface"`
	SelectedTab     string      `json:"selected_tab"`
	CursorState     string      `json:"cursor_state"`
	HoverText       string      `json:"hover_text"`
	Elements        []UIElement `json:"elements"`
	DialogueOptions []string    `json:"dialogue_options"`
}

// UIElement is one on-screen widget.
type UIElement struct {
	ID          string `json:"id"`
	ElementType string `json:"element_type"`
	Bounds      Region `json:"bounds"`
	Visible     bool   `json:"visible"`
}

// OCREntry is recognized text from a named region.
type OCREntry struct {
	Region     string  `json:"region"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// CuesInfo summarizes the visual cue state of the frame.
// HighlightState is "arrow" when a guide arrow is visible, "object" when
// only a highlight is, and "none" when neither. The arrow wins when both
// are present; it points at the thing the player must act on next.
type CuesInfo struct {
	AnimationState string `json:"animation_state"`
	HighlightState string `json:"highlight_state"`
	ModalState     string `json:"modal_state"`
	HoverText      string `json:"hover_text"`
	ChatPrompt     string `json:"chat_prompt"`
}

// DerivedInfo holds facts inferred from telemetry rather than observed.
type DerivedInfo struct {
	Location LocationInfo `json:"location"`
	Activity ActivityInfo `json:"activity"`
	Combat   CombatInfo   `json:"combat"`
}

// LocationInfo places the player in the world.
type LocationInfo struct {
	Region      string     `json:"region"`
	Subarea     string     `json:"subarea"`
	Coordinates WorldCoord `json:"coordinates"`
}

// WorldCoord is a position in world tile coordinates.
type WorldCoord struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Plane int `json:"plane"`
}

// ScreenCoord is a position in client screen pixels.
type ScreenCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ActivityInfo describes what the player appears to be doing.
type ActivityInfo struct {
	ActivityType string  `json:"activity_type"`
	State        string  `json:"state"`
	Progress     float64 `json:"progress"`
}

// CombatInfo describes combat engagement state.
type CombatInfo struct {
	State string `json:"state"`
}

// AccountInfo carries slow-changing account state.
type AccountInfo struct {
	Name             string               `json:"name"`
	MembershipStatus string               `json:"membership_status"`
	Skills           map[string]SkillInfo `json:"skills"`
	Inventory        []InventoryItem      `json:"inventory"`
	Equipment        map[string]string    `json:"equipment"`
	Resources        ResourceInfo         `json:"resources"`
}

// SkillInfo is one skill's level and experience.
type SkillInfo struct {
	Level int    `json:"level"`
	XP    uint64 `json:"xp"`
}

// InventoryItem is one occupied inventory slot.
type InventoryItem struct {
	Slot     int    `json:"slot"`
	ItemID   int    `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ResourceInfo tracks spendable resources.
type ResourceInfo struct {
	GP int64 `json:"gp"`
}

// TelemetryInfo is the client-plugin telemetry folded into a snapshot.
// Fresh is false once the source record is older than the staleness window;
// the snapshot-level Stale flag is always its negation.
type TelemetryInfo struct {
	Fresh            bool         `json:"fresh"`
	TutorialProgress int          `json:"tutorial_progress"`
	InventoryCount   int          `json:"inventory_count"`
	CameraDirection  string       `json:"camera_direction"`
	NPCsOnScreen     []NPCInfo    `json:"npcs_on_screen"`
	PlayerScreen     *ScreenCoord `json:"player_screen,omitempty"`
	PlayerWorld      *WorldCoord  `json:"player_world,omitempty"`
}

// NPCInfo is one NPC visible on screen, with its canvas position.
type NPCInfo struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}
