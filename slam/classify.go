package slam

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
)

// floatPattern is a decimal float: optional sign, digits with an optional fraction (or a bare
// fraction), optional exponent. No "inf", "nan", hex or digit separators.
const floatPattern = `[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`

var (
	floatToken = regexp.MustCompile(`^` + floatPattern + `$`)
	// A pixel may be written "u v", "u,v", "[u, v]" or any mix of the optional brackets and comma.
	pixelLine = regexp.MustCompile(
		`^[ \t]*\[?[ \t]*(` + floatPattern + `)(?:[ \t]*,[ \t]*|[ \t]+)(` + floatPattern + `)[ \t]*\]?[ \t]*$`)
	// The separator is any Unicode White_Space character, not only RE2's ASCII \s.
	cameraLabelLine  = regexp.MustCompile(`^.*CAMERA_ID[\s\v\p{Zs}\x{85}\x{2028}\x{2029}](.*)$`)
	intrinsicTagLine = regexp.MustCompile(`MATRIX K`)
)

// trimTerminator drops one optional trailing line terminator.
func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// parseFloats returns the values of line iff it holds exactly n float tokens.
func parseFloats(line string, n int) ([]float64, bool) {
	tokens := strings.FieldsFunc(trimTerminator(line), isBlank)
	if len(tokens) != n {
		return nil, false
	}
	values := make([]float64, n)
	for i, tok := range tokens {
		v, ok := parseFloat(tok)
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func parseFloat(tok string) (float64, bool) {
	if !floatToken.MatchString(tok) {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		// Out of range magnitudes.
		return 0, false
	}
	return v, true
}

// matchFourFloats recognizes a pose row: exactly four floats.
func matchFourFloats(line string) ([4]float64, bool) {
	var row [4]float64
	values, ok := parseFloats(line, 4)
	if !ok {
		return row, false
	}
	copy(row[:], values)
	return row, true
}

// matchThreeFloats recognizes a point or an intrinsic row: exactly three floats.
func matchThreeFloats(line string) ([3]float64, bool) {
	var row [3]float64
	values, ok := parseFloats(line, 3)
	if !ok {
		return row, false
	}
	copy(row[:], values)
	return row, true
}

// matchTwoFloats recognizes a pixel observation.
func matchTwoFloats(line string) (r2.Point, bool) {
	m := pixelLine.FindStringSubmatch(trimTerminator(line))
	if m == nil {
		return r2.Point{}, false
	}
	x, okX := parseFloat(m[1])
	y, okY := parseFloat(m[2])
	if !okX || !okY {
		return r2.Point{}, false
	}
	return r2.Point{X: x, Y: y}, true
}

// matchCameraLabel captures everything after "CAMERA_ID" and one whitespace character.
func matchCameraLabel(line string) (string, bool) {
	m := cameraLabelLine.FindStringSubmatch(trimTerminator(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// matchIntrinsicTag recognizes the line announcing an intrinsic block.
func matchIntrinsicTag(line string) bool {
	return intrinsicTagLine.MatchString(trimTerminator(line))
}
