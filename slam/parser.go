// Package slam reconstructs camera poses, pixel observations, 3D points and the intrinsic
// calibration from a plain-text SLAM trajectory log.
//
// The log has no record delimiters. Each line is classified by its shape (four floats, three
// floats, two floats, or a CAMERA_ID / MATRIX K marker) together with the current parse state:
// three consecutive four-float rows form a pose, three three-float rows after "MATRIX K" form the
// intrinsic matrix, a free three-float line is a point, and a two-float line is a pixel seen by
// the most recent camera. Lines matching nothing are skipped. Lines are processed strictly in
// order and the first structural error stops the parse.
package slam

import (
	"bufio"
	"io"
	"os"
	"unicode/utf8"

	"go.uber.org/multierr"

	"go.viam.com/slamlog/logging"
)

// maxLineLength bounds a single line; longer lines fail with LineReadFailure.
const maxLineLength = 1 << 20

type options struct {
	logger     logging.Logger
	convention Convention
	strictEnd  bool
}

// Option configures a Parser.
type Option func(*options)

// WithLogger sets the logger that receives a debug trace of every rule decision.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConvention fixes how the logged poses are interpreted. The default is WorldToCamera.
func WithConvention(convention Convention) Option {
	return func(o *options) {
		o.convention = convention
	}
}

// WithStrictEnd makes Finish report a pose or intrinsic block left open at end of input.
// By default a truncated trailing block is silently dropped.
func WithStrictEnd(strict bool) Option {
	return func(o *options) {
		o.strictEnd = strict
	}
}

// Parser is the line-at-a-time state machine. It is not safe for concurrent use; lines must be
// fed in file order.
type Parser struct {
	state     parseState
	agg       *aggregator
	line      int
	logger    logging.Logger
	strictEnd bool
	failed    error
}

// NewParser returns a parser ready for the first line.
func NewParser(opts ...Option) *Parser {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewBlankLogger("slam")
		o.logger.SetLevel(logging.INFO)
	}
	return &Parser{
		// No camera exists yet, so a leading pixel is rejected like one following a point.
		state:     justSawPointState{},
		agg:       newAggregator(o.convention),
		logger:    o.logger,
		strictEnd: o.strictEnd,
	}
}

// State returns where the parser is in the grammar.
func (p *Parser) State() State {
	return snapshot(p.state)
}

// Dataset returns the dataset built so far. It must not be modified while lines are still being
// fed.
func (p *Parser) Dataset() *Dataset {
	return p.agg.dataset
}

// NextLine feeds one line. After an error the parser rejects every further line with the same
// error.
func (p *Parser) NextLine(line string) error {
	if p.failed != nil {
		return p.failed
	}
	p.line++
	for _, r := range rules {
		next, err := r.apply(p, line)
		if err != nil {
			p.logger.Debugw("rule failed", "line", p.line, "state", p.State().String(), "rule", r.name, "error", err)
			p.failed = err
			return err
		}
		if next == nil {
			continue
		}
		p.logger.Debugw("rule applied",
			"line", p.line, "rule", r.name, "from", p.State().String(), "to", snapshot(next).String())
		p.state = next
		return nil
	}
	p.logger.Debugw("line skipped", "line", p.line, "state", p.State().String())
	return nil
}

// Finish ends the input and returns the dataset. With WithStrictEnd an open block is an error.
func (p *Parser) Finish() (*Dataset, error) {
	if p.failed != nil {
		return nil, p.failed
	}
	if p.strictEnd {
		switch p.state.(type) {
		case inPoseState:
			return nil, newParseError(IncompletePose, p.line, "<end of input>")
		case inIntrinsicState:
			return nil, newParseError(IncompleteIntrinsic, p.line, "<end of input>")
		}
	} else if k := p.state.kind(); k == StateInPose || k == StateInIntrinsic {
		p.logger.Warnw("input ended inside a block; the partial block is dropped",
			"line", p.line, "state", p.State().String())
	}
	d := p.agg.dataset
	p.logger.Infow("parsed trajectory log",
		"lines", p.line, "cameras", len(d.Cameras), "points", len(d.Points), "pixels", d.NumPixels())
	return d, nil
}

func (p *Parser) lineError(kind ErrorKind, line string) error {
	return newParseError(kind, p.line, trimTerminator(line))
}

// Parse reads lines from r in order and returns the finished dataset or the first error. No
// partial dataset is returned on error.
func Parse(r io.Reader, opts ...Option) (*Dataset, error) {
	p := NewParser(opts...)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := scanner.Text()
		if !utf8.ValidString(line) {
			return nil, newParseError(LineReadFailure, p.line+1, line)
		}
		if err := p.NextLine(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		perr := newParseError(LineReadFailure, p.line+1, "")
		perr.Err = err
		return nil, perr
	}
	return p.Finish()
}

// ParseFile opens path and parses it.
func ParseFile(path string, opts ...Option) (_ *Dataset, err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		perr := newParseError(SourceUnavailable, 0, "")
		perr.Err = err
		return nil, perr
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return Parse(f, opts...)
}
