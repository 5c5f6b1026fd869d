package stream

// TransformFunc rewrites one unit (e.g. translates it). It is invoked
// synchronously: the transformation of one unit completes before the next
// unit is requested from upstream.
type TransformFunc func(string) (string, error)

// transform applies fn to each unit, preserving order. A failed transform
// fails the whole stage: silently skipping a unit would break the
// order-completeness the orchestrator relies on.
type transform struct {
	src Source
	fn  TransformFunc
	err error
}

// TransformEach returns a Source emitting fn(unit) for each upstream unit,
// in upstream order, with at most one unit in flight.
func TransformEach(src Source, fn TransformFunc) Source {
	return &transform{src: src, fn: fn}
}

func (t *transform) Next() (string, error) {
	if t.err != nil {
		return "", t.err
	}
	unit, err := t.src.Next()
	if err != nil {
		t.err = err
		return "", err
	}
	out, err := t.fn(unit)
	if err != nil {
		t.err = err
		return "", err
	}
	return out, nil
}
