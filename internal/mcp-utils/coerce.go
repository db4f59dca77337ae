// Package mcputils binds MCP tool arguments to request structs.
package mcputils

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ArgumentGetter is an interface for getting arguments from a request
type ArgumentGetter interface {
	GetArguments() map[string]interface{}
}

// BindArguments decodes request arguments into target using its json tags.
//
// Clients frequently send every argument as a string ("12", "true",
// `["a"]`), so string values are first converted to the kind of the field
// they land in. Strings that do not convert are left for mapstructure's
// weak typing to handle or reject.
func BindArguments[T any](request ArgumentGetter, target *T) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringArgumentHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(request.GetArguments())
}

// stringArgumentHook converts string arguments to the target field's kind.
func stringArgumentHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	if raw == "" {
		return data, nil
	}

	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}

	switch to.Kind() {
	case reflect.Bool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b, nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}

	case reflect.Slice, reflect.Map, reflect.Struct:
		if !looksLikeJSON(raw) {
			break
		}
		value := reflect.New(to)
		if err := json.Unmarshal([]byte(raw), value.Interface()); err == nil {
			return value.Elem().Interface(), nil
		}
	}

	return data, nil
}

func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"))
}
