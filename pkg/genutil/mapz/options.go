package mapz

// Option configures a BiMultiMap on construction.
type Option func(*options)

type options struct {
	capacity        uint32
	inverseCapacity uint32
}

// WithCapacity sizes the forward storage for the given number of keys.
func WithCapacity(capacity uint32) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithInverseCapacity sizes the inverse storage for the given number of
// distinct values.
func WithInverseCapacity(capacity uint32) Option {
	return func(o *options) {
		o.inverseCapacity = capacity
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
