package stdlib

import "github.com/openllb/remap/function"

// NewRegistry returns a Registry populated with every builtin this package
// implements (spec §4.5's representative-function set).
func NewRegistry() *function.Registry {
	return function.NewRegistry(
		Ceil{}, Floor{},
		Compact{}, IsNullish{},
		DecodeBase64{}, EncodeBase64{},
		Get{}, Set{}, Remove{}, Del{},
		ParseRegex{}, ParseRegexAll{}, ParseTokens{},
		ObjectFromArray{}, Zip{},
		EncodeProto{}, ParseProto{},
	)
}
