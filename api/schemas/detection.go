package schemas

// CueKind identifies which visual cue a detector looks for.
type CueKind string

const (
	CueArrow     CueKind = "arrow"
	CueHighlight CueKind = "highlight"
)

// Region is a rectangle in screen coordinates, origin top-left.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the pixel count covered by the region.
func (r Region) Area() int {
	return r.Width * r.Height
}

// Frame is a raw captured image. Pixels is tightly packed RGBA,
// row-major, 4 bytes per pixel.
type Frame struct {
	Pixels []byte `json:"pixels"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Complete reports whether the pixel buffer covers the declared dimensions.
func (f *Frame) Complete() bool {
	return f != nil && len(f.Pixels) >= f.Width*f.Height*4
}

// Point is a located cue: the centroid of the matching pixel mass and a
// confidence in [0, 1] derived from its size.
type Point struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Confidence float64 `json:"confidence"`
}

// DetectionResult carries the outcome of one capture-and-detect pass.
// A nil Arrow or Highlight means the cue was not present; that is a valid
// result, not an error.
type DetectionResult struct {
	Arrow     *Point `json:"arrow"`
	Highlight *Point `json:"highlight"`
	CaptureMS uint64 `json:"capture_ms"`
	DetectMS  uint64 `json:"detect_ms"`
}

// EmptyDetectionResult returns a result with no cues and zeroed timings.
func EmptyDetectionResult() DetectionResult {
	return DetectionResult{}
}

// Found reports whether either cue was located.
func (d DetectionResult) Found() bool {
	return d.Arrow != nil || d.Highlight != nil
}
