package kv

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// decodeInto unmarshals into a fresh value and only then copies it to dst, so
// a payload that fails halfway never leaves dst partially written.
func decodeInto(payload []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("kv: destination must be a non-nil pointer, got %T", dst)
	}
	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(payload, fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
