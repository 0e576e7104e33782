package canon

import (
	"errors"
	"fmt"
	"reflect"
	"unicode/utf8"
)

var (
	ErrInvalidUTF8 = errors.New("canon: string is not valid UTF-8")
	ErrTooDeep     = errors.New("canon: payload nested too deeply")
)

const maxDepth = 1000

func validUTF8(v any) error {
	return walkUTF8(reflect.ValueOf(v), 0)
}

// walkUTF8 checks every string reachable from v, map keys included. Byte
// slices are binary and skipped.
func walkUTF8(v reflect.Value, depth int) error {
	if depth > maxDepth {
		return ErrTooDeep
	}
	switch v.Kind() {
	case reflect.String:
		if s := v.String(); !utf8.ValidString(s) {
			return fmt.Errorf("%w: %q", ErrInvalidUTF8, s)
		}
	case reflect.Interface, reflect.Pointer:
		if !v.IsNil() {
			return walkUTF8(v.Elem(), depth+1)
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := walkUTF8(iter.Key(), depth+1); err != nil {
				return err
			}
			if err := walkUTF8(iter.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walkUTF8(v.Index(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if f := t.Field(i); !f.IsExported() && !f.Anonymous {
				continue
			}
			if err := walkUTF8(v.Field(i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
