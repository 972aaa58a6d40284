// Package bridge exposes the perception core to a host process. Hosts speak
// a line-delimited JSON protocol: one request envelope per line on stdin, one
// response envelope per line on stdout. Every op is an adapter around a pure
// core function; the bridge itself owns no domain logic and no state beyond
// its wiring.
package bridge

import (
	"context"
	"errors"
	"fmt"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/vex0ray/spyglass/api/schemas"
	"github.com/vex0ray/spyglass/internal/capture"
	"github.com/vex0ray/spyglass/internal/pipeline"
	"github.com/vex0ray/spyglass/internal/snapshot"
	"github.com/vex0ray/spyglass/internal/validate"
	"github.com/vex0ray/spyglass/internal/vision"
)

// Registered op names. These match the foreign-call surface hosts already
// script against; renaming one is a breaking protocol change.
const (
	OpCaptureRegion    = "capture_region"
	OpDetectArrow      = "detect_arrow"
	OpDetectHighlight  = "detect_highlight"
	OpCaptureAndDetect = "capture_and_detect"
	OpValidateIntent   = "validate_intent"
	OpValidateSnapshot = "validate_snapshot"
	OpGetRegion        = "get_region"
	OpGetTutorialPhase = "get_tutorial_phase"
	OpCheckTiming      = "check_timing"
	OpGetTimingBudgets = "get_timing_budgets"
)

// ErrMalformedInput marks request params that could not be decoded. This is
// the structural error family; semantic rule violations never surface here,
// they ride back inside a ValidationResult.
var ErrMalformedInput = errors.New("malformed input")

// Request is one host call. Params is kept raw until the op's handler knows
// what shape to decode.
type Request struct {
	ID     string          `json:"id"`
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params"`
}

// Response answers one request. OK distinguishes transport-level success
// from failure; a null Result under OK is a valid outcome (a cue that was
// not found), not an error.
type Response struct {
	ID     string      `json:"id"`
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// handlerFunc decodes an op's params and runs the underlying core call.
type handlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Dispatcher routes request envelopes to op handlers. It is stateless across
// requests and safe for concurrent use.
type Dispatcher struct {
	source   capture.Source
	locator  *vision.Locator
	analyzer *vision.Analyzer
	regions  *snapshot.RegionTable
	logger   *zap.Logger
	handlers map[string]handlerFunc
}

// NewDispatcher wires the op table over the supplied components.
func NewDispatcher(src capture.Source, locator *vision.Locator, analyzer *vision.Analyzer, regions *snapshot.RegionTable, logger *zap.Logger) (*Dispatcher, error) {
	if src == nil {
		return nil, errors.New("capture source cannot be nil")
	}
	if locator == nil {
		return nil, errors.New("locator cannot be nil")
	}
	if analyzer == nil {
		return nil, errors.New("analyzer cannot be nil")
	}
	if regions == nil {
		return nil, errors.New("region table cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	d := &Dispatcher{
		source:   src,
		locator:  locator,
		analyzer: analyzer,
		regions:  regions,
		logger:   logger.With(zap.String("component", "bridge")),
	}
	d.registerHandlers()
	return d, nil
}

// registerHandlers builds the op routing table.
func (d *Dispatcher) registerHandlers() {
	d.handlers = map[string]handlerFunc{
		OpCaptureRegion:    d.captureRegion,
		OpDetectArrow:      d.detectArrow,
		OpDetectHighlight:  d.detectHighlight,
		OpCaptureAndDetect: d.captureAndDetect,
		OpValidateIntent:   d.validateIntent,
		OpValidateSnapshot: d.validateSnapshot,
		OpGetRegion:        d.getRegion,
		OpGetTutorialPhase: d.getTutorialPhase,
		OpCheckTiming:      d.checkTiming,
		OpGetTimingBudgets: d.getTimingBudgets,
	}
}

// Ops returns the registered op names, for diagnostics and tests.
func (d *Dispatcher) Ops() []string {
	ops := make([]string, 0, len(d.handlers))
	for op := range d.handlers {
		ops = append(ops, op)
	}
	return ops
}

// Dispatch runs one request and always produces a response; errors become
// the response's Error field, never a dropped envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	handler, exists := d.handlers[req.Op]
	if !exists {
		d.logger.Warn("Unknown op requested", zap.String("op", req.Op))
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown op: %s", req.Op)}
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		d.logger.Debug("Op failed",
			zap.String("op", req.Op),
			zap.String("id", req.ID),
			zap.Error(err))
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, OK: true, Result: result}
}

// decodeParams unmarshals params into v, folding any failure into the
// malformed-input family.
func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: missing params", ErrMalformedInput)
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}

// -- Op param shapes --

type regionParams struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// frameParams carries a raw frame across the boundary. Pixels rides as a
// base64 string inside the JSON envelope.
type frameParams struct {
	Pixels []byte `json:"pixels"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type coordParams struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type phaseParams struct {
	Progress int `json:"progress"`
}

type timingParams struct {
	StageName string `json:"stage_name"`
	LatencyMS uint64 `json:"latency_ms"`
}

// -- Op handlers --

func (d *Dispatcher) captureRegion(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p regionParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	frame, err := d.source.Capture(ctx, schemas.Region{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height})
	if err != nil {
		return nil, err
	}
	return frame, nil
}

func (d *Dispatcher) detectArrow(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return d.detectCue(ctx, params, d.locator.LocateArrow)
}

func (d *Dispatcher) detectHighlight(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return d.detectCue(ctx, params, d.locator.LocateHighlight)
}

// detectCue runs one locator over a host-supplied frame. A short buffer is
// not an error here: the locator reports not-found, exactly as it would for
// a frame with no cue in it.
func (d *Dispatcher) detectCue(ctx context.Context, params json.RawMessage, locate func(context.Context, *schemas.Frame) *schemas.Point) (interface{}, error) {
	var p frameParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	frame := &schemas.Frame{Pixels: p.Pixels, Width: p.Width, Height: p.Height}
	return locate(ctx, frame), nil
}

func (d *Dispatcher) captureAndDetect(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p regionParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	result, err := d.analyzer.Analyze(ctx, schemas.Region{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) validateIntent(_ context.Context, params json.RawMessage) (interface{}, error) {
	var intent schemas.ActionIntent
	if err := decodeParams(params, &intent); err != nil {
		return nil, err
	}
	return validate.Intent(intent), nil
}

func (d *Dispatcher) validateSnapshot(_ context.Context, params json.RawMessage) (interface{}, error) {
	var snap schemas.SnapshotSchema
	if err := decodeParams(params, &snap); err != nil {
		return nil, err
	}
	return validate.Snapshot(snap), nil
}

func (d *Dispatcher) getRegion(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p coordParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return d.regions.Lookup(p.X, p.Y), nil
}

func (d *Dispatcher) getTutorialPhase(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p phaseParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return snapshot.TutorialPhase(p.Progress), nil
}

func (d *Dispatcher) checkTiming(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p timingParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return pipeline.Check(p.StageName, p.LatencyMS), nil
}

// getTimingBudgets takes no params; any supplied are ignored.
func (d *Dispatcher) getTimingBudgets(_ context.Context, _ json.RawMessage) (interface{}, error) {
	budgets := pipeline.Budgets()
	table := make(map[string]uint64, len(budgets))
	for _, b := range budgets {
		table[b.Stage] = b.BudgetMS
	}
	return table, nil
}
