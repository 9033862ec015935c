package slam

// A rule either returns the next state (the line was consumed), an error, or (nil, nil) to let
// the next rule look at the line.
type rule struct {
	name  string
	apply func(p *Parser, line string) (parseState, error)
}

// rules are tried in this order for every line; the order is part of the grammar.
var rules = []rule{
	{"camera_label", (*Parser).tryCameraLabel},
	{"four_floats", (*Parser).tryFourFloats},
	{"three_floats", (*Parser).tryThreeFloats},
	{"two_floats", (*Parser).tryTwoFloats},
	{"intrinsic_tag", (*Parser).tryIntrinsicTag},
}

// tryCameraLabel stores a label for the next pose. A label line inside a pose block falls
// through to the other rules and is then most likely skipped.
func (p *Parser) tryCameraLabel(line string) (parseState, error) {
	if _, ok := p.state.(inPoseState); ok {
		return nil, nil
	}
	label, ok := matchCameraLabel(line)
	if !ok {
		return nil, nil
	}
	p.agg.setPendingLabel(label)
	return p.state, nil
}

func (p *Parser) tryFourFloats(line string) (parseState, error) {
	row, ok := matchFourFloats(line)
	switch s := p.state.(type) {
	case inIntrinsicState:
		return nil, nil
	case inPoseState:
		if !ok {
			return nil, p.lineError(IncompletePose, line)
		}
		next, complete := s.withRow(row)
		if !complete {
			return next, nil
		}
		p.agg.commitPose(next.rows)
		return emptyState{}, nil
	default:
		if !ok {
			return nil, nil
		}
		started, _ := inPoseState{}.withRow(row)
		return started, nil
	}
}

func (p *Parser) tryThreeFloats(line string) (parseState, error) {
	row, ok := matchThreeFloats(line)
	switch s := p.state.(type) {
	case inPoseState:
		return nil, nil
	case inIntrinsicState:
		if !ok {
			return nil, p.lineError(IncompleteIntrinsic, line)
		}
		next, complete := s.withRow(row)
		if !complete {
			return next, nil
		}
		p.agg.commitIntrinsic(next.rows)
		return emptyState{}, nil
	default:
		if !ok {
			return nil, nil
		}
		p.agg.commitPoint(row)
		return justSawPointState{}, nil
	}
}

func (p *Parser) tryTwoFloats(line string) (parseState, error) {
	switch p.state.(type) {
	case inPoseState:
		return nil, p.lineError(IncompletePose, line)
	case inIntrinsicState:
		return nil, p.lineError(IncompleteIntrinsic, line)
	}

	px, ok := matchTwoFloats(line)
	if !ok {
		return nil, nil
	}
	if _, ok := p.state.(justSawPointState); ok {
		return nil, p.lineError(UnexpectedPixel, line)
	}
	if err := p.agg.appendPixel(px); err != nil {
		return nil, p.lineError(MissingCamera, line)
	}
	return emptyState{}, nil
}

func (p *Parser) tryIntrinsicTag(line string) (parseState, error) {
	if !matchIntrinsicTag(line) {
		return nil, nil
	}
	return inIntrinsicState{}, nil
}
