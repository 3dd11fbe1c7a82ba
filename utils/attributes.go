package utils

import (
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// AttributeMap is a loosely typed set of attributes, usually decoded from JSON.
type AttributeMap map[string]interface{}

// Has returns whether the key is set.
func (am AttributeMap) Has(key string) bool {
	_, has := am[key]
	return has
}

// DecodeAttributes decodes attributes into a new T using the json field tags of T. Keys that do not
// map to any field are an error.
func DecodeAttributes[T any](attributes AttributeMap) (T, error) {
	var out T
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &out,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return out, err
	}
	if len(md.Unused) != 0 {
		sort.Strings(md.Unused)
		return out, errors.Errorf("unknown attributes %q", md.Unused)
	}
	return out, nil
}
