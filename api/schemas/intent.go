package schemas

// ActionType names a kind of input the executor can perform.
type ActionType string

const (
	ActionClick     ActionType = "click"
	ActionMove      ActionType = "move"
	ActionDrag      ActionType = "drag"
	ActionKey       ActionType = "key"
	ActionScroll    ActionType = "scroll"
	ActionWait      ActionType = "wait"
	ActionWalk      ActionType = "walk"
	ActionInteract  ActionType = "interact"
	ActionDialogue  ActionType = "dialogue"
	ActionInventory ActionType = "inventory"
	ActionCamera    ActionType = "camera"
)

var validActionTypes = map[ActionType]bool{
	ActionClick:     true,
	ActionMove:      true,
	ActionDrag:      true,
	ActionKey:       true,
	ActionScroll:    true,
	ActionWait:      true,
	ActionWalk:      true,
	ActionInteract:  true,
	ActionDialogue:  true,
	ActionInventory: true,
	ActionCamera:    true,
}

// Targeted action types must name at least one concrete target.
var targetedActionTypes = map[ActionType]bool{
	ActionClick:    true,
	ActionInteract: true,
	ActionWalk:     true,
	ActionDrag:     true,
}

// Valid reports whether t is a recognized action type.
func (t ActionType) Valid() bool {
	return validActionTypes[t]
}

// RequiresTarget reports whether intents of this type must carry a target.
func (t ActionType) RequiresTarget() bool {
	return targetedActionTypes[t]
}

// ActionIntent is a proposed action awaiting validation before execution.
type ActionIntent struct {
	IntentID     string                 `json:"intent_id"`
	ActionType   ActionType             `json:"action_type"`
	Target       ActionTarget           `json:"target"`
	Confidence   float64                `json:"confidence"`
	RequiredCues []string               `json:"required_cues"`
	Gating       GatingConfig           `json:"gating"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
}

// ActionTarget identifies what an action operates on. All fields are
// optional; a targeted intent needs at least one of them set.
type ActionTarget struct {
	X         *int    `json:"x,omitempty"`
	Y         *int    `json:"y,omitempty"`
	Name      *string `json:"name,omitempty"`
	UIElement *string `json:"ui_element,omitempty"`
	NPCID     *int    `json:"npc_id,omitempty"`
	ObjectID  *int    `json:"object_id,omitempty"`
}

// HasReference reports whether any identifying field is present. The Y
// coordinate alone does not count; X anchors coordinate targets.
func (t ActionTarget) HasReference() bool {
	return t.X != nil || t.Name != nil || t.UIElement != nil ||
		t.NPCID != nil || t.ObjectID != nil
}

// GatingConfig constrains when a validated intent may actually fire.
type GatingConfig struct {
	RequireHover   bool   `json:"require_hover"`
	RequireVisible bool   `json:"require_visible"`
	TimeoutMS      uint32 `json:"timeout_ms"`
}
