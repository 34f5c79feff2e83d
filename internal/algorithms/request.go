// Transform requests: a closed set of geometric operations and their parameters
package algorithms

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind enumerates the supported transforms
type Kind int

const (
	KindRotate Kind = iota
	KindScale
	KindFlip
	KindTranslate
)

// Kinds lists every transform in the order the UI presents them.
var Kinds = []Kind{KindRotate, KindScale, KindFlip, KindTranslate}

// Label is the human readable name used by the GUI.
func (k Kind) Label() string {
	switch k {
	case KindRotate:
		return "Rotate"
	case KindScale:
		return "Scale"
	case KindFlip:
		return "Flip"
	case KindTranslate:
		return "Translate"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is the lower-case name used on the command line.
func (k Kind) Token() string {
	return strings.ToLower(k.Label())
}

// Labels returns the GUI labels of all kinds.
func Labels() []string {
	labels := make([]string, len(Kinds))
	for i, k := range Kinds {
		labels[i] = k.Label()
	}
	return labels
}

// ParseKind accepts either a label or a token, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == k.Token() {
			return k, nil
		}
	}
	return 0, InvalidParameter("parse", "unknown transform %q", s)
}

// Axis selects the reflection axis of a flip.
type Axis int

const (
	// AxisHorizontal reflects across the horizontal axis: rows are reversed
	// and the image turns upside down.
	AxisHorizontal Axis = iota
	// AxisVertical reflects across the vertical axis: columns are reversed
	// and the image is mirrored left to right.
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis trims and lower-cases s before matching.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return AxisHorizontal, nil
	case "vertical":
		return AxisVertical, nil
	}
	return 0, InvalidParameter("flip", "axis must be 'horizontal' or 'vertical', got %q", s)
}

// Request is one of Rotate, Scale, Flip or Translate.
type Request interface {
	Kind() Kind
	Validate() error
	String() string

	isRequest()
}

// Rotate turns the image about its centre. Positive angles are
// counter-clockwise on screen.
type Rotate struct {
	AngleDegrees float64
}

// Scale resizes each axis by its factor.
type Scale struct {
	FactorX float64
	FactorY float64
}

// Flip mirrors the image across Axis.
type Flip struct {
	Axis Axis
}

// Translate shifts the image content by DX columns and DY rows.
type Translate struct {
	DX int
	DY int
}

func (Rotate) Kind() Kind    { return KindRotate }
func (Scale) Kind() Kind     { return KindScale }
func (Flip) Kind() Kind      { return KindFlip }
func (Translate) Kind() Kind { return KindTranslate }

func (Rotate) isRequest()    {}
func (Scale) isRequest()     {}
func (Flip) isRequest()      {}
func (Translate) isRequest() {}

func (r Rotate) String() string {
	return fmt.Sprintf("Rotate %g°", r.AngleDegrees)
}

func (r Scale) String() string {
	return fmt.Sprintf("Scale x%g, y%g", r.FactorX, r.FactorY)
}

func (r Flip) String() string {
	return fmt.Sprintf("Flip %s", r.Axis)
}

func (r Translate) String() string {
	return fmt.Sprintf("Translate dx=%d, dy=%d", r.DX, r.DY)
}

func (r Rotate) Validate() error {
	if !isFinite(r.AngleDegrees) {
		return InvalidParameter("rotate", "angle must be finite, got %v", r.AngleDegrees)
	}
	return nil
}

func (r Scale) Validate() error {
	if !isFinite(r.FactorX) || r.FactorX <= 0 {
		return InvalidParameter("scale", "factor x must be > 0, got %v", r.FactorX)
	}
	if !isFinite(r.FactorY) || r.FactorY <= 0 {
		return InvalidParameter("scale", "factor y must be > 0, got %v", r.FactorY)
	}
	return nil
}

func (r Flip) Validate() error {
	if r.Axis != AxisHorizontal && r.Axis != AxisVertical {
		return InvalidParameter("flip", "unknown axis %d", int(r.Axis))
	}
	return nil
}

func (r Translate) Validate() error {
	return nil
}

// ParseRequest converts raw text from the control panel or the command
// line into a typed request. second is ignored by kinds that take a
// single parameter.
func ParseRequest(kind Kind, first, second string) (Request, error) {
	var req Request
	switch kind {
	case KindRotate:
		angle, err := parseFloat("rotate", "angle", first)
		if err != nil {
			return nil, err
		}
		req = Rotate{AngleDegrees: angle}
	case KindScale:
		fx, err := parseFloat("scale", "factor x", first)
		if err != nil {
			return nil, err
		}
		fy, err := parseFloat("scale", "factor y", second)
		if err != nil {
			return nil, err
		}
		req = Scale{FactorX: fx, FactorY: fy}
	case KindFlip:
		axis, err := ParseAxis(first)
		if err != nil {
			return nil, err
		}
		req = Flip{Axis: axis}
	case KindTranslate:
		dx, err := parseInt("translate", "offset x", first)
		if err != nil {
			return nil, err
		}
		dy, err := parseInt("translate", "offset y", second)
		if err != nil {
			return nil, err
		}
		req = Translate{DX: dx, DY: dy}
	default:
		return nil, InvalidParameter("parse", "unknown transform kind %d", int(kind))
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func parseFloat(op, field, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, InvalidParameter(op, "%s must be a number, got %q", field, text)
	}
	return v, nil
}

func parseInt(op, field, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, InvalidParameter(op, "%s must be an integer, got %q", field, text)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
