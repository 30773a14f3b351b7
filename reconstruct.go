package joinery

type options struct {
	key KeyFunc
}

type Option func(*options)

// WithKey replaces DefaultKey for every level of the shape.
func WithKey(fn KeyFunc) Option {
	return func(o *options) { o.key = fn }
}

func buildOptions(opts []Option) options {
	o := options{key: DefaultKey}
	for _, opt := range opts {
		opt(&o)
	}
	if o.key == nil {
		o.key = DefaultKey
	}
	return o
}

// Reconstruct rebuilds the nested value described by shape from the joined
// rows. List quantities yield []any, singular quantities an *Object (or nil
// for an empty Option); leaves are the records found in the rows.
//
// Either the complete value or the first error encountered is returned.
func Reconstruct(rows []Row, shape *Transformation, opts ...Option) (any, error) {
	if err := shape.Validate(0); err != nil {
		return nil, err
	}
	return reconstruct(rows, shape, buildOptions(opts))
}

func reconstruct(rows []Row, shape *Transformation, o options) (any, error) {
	groups, err := accumulate(rows, shape, o.key)
	if err != nil {
		return nil, err
	}
	return present(shape, "", groups)
}

// ReconstructInto is Reconstruct followed by Bind into a T. T must match the
// top-level quantity: a slice for lists, a struct or pointer for One and
// AssumeOne, a pointer for Option.
func ReconstructInto[T any](rows []Row, shape *Transformation, opts ...Option) (T, error) {
	var out T
	v, err := Reconstruct(rows, shape, opts...)
	if err != nil {
		return out, err
	}
	if err := Bind(&out, v); err != nil {
		return out, err
	}
	return out, nil
}
