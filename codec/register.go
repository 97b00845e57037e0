package codec

import idjson "github.com/reoring/idjson"

// Converters returns the identifier converters in registration order.
func Converters() []idjson.Converter {
	return []idjson.Converter{StrictInt64{}, LenientInt64{}}
}

// Register returns the option that installs the identifier converters ahead
// of any other converters passed to idjson.NewSerializer.
func Register() idjson.Option {
	return idjson.WithConverters(Converters()...)
}

// NewSerializer returns an idjson.Serializer with the identifier converters
// registered first, followed by opts.
func NewSerializer(opts ...idjson.Option) *idjson.Serializer {
	return idjson.NewSerializer(append([]idjson.Option{Register()}, opts...)...)
}
