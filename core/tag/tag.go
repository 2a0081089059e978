// Package tag fills zero-valued struct fields from `default` struct
// tags. Config and logger structs use it so a zero value of a config
// type is immediately usable.
package tag

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTargetMustBePointer = fmt.Errorf("target must be a non-nil struct pointer")
	ErrUnsupportedType     = fmt.Errorf("unsupported field type")
	ErrMaxDepthExceeded    = fmt.Errorf("max recursion depth exceeded")
)

const maxDepth = 16

// FieldError reports which field a tag failed to parse for.
type FieldError struct {
	Path  string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q (default: %q): %v", e.Path, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ApplyDefaults walks the struct pointed to by target and sets every
// zero-valued exported field that carries a `default` tag. Fields that
// already hold a value are left alone. Nested structs and struct
// pointers are descended into.
func ApplyDefaults(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrTargetMustBePointer
	}

	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}

	return applyStruct(elem, "", 0)
}

func applyStruct(v reflect.Value, path string, depth int) error {
	if depth >= maxDepth {
		return ErrMaxDepthExceeded
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if !fv.CanSet() {
			continue
		}

		fieldPath := field.Name
		if path != "" {
			fieldPath = path + "." + field.Name
		}

		tagValue := field.Tag.Get("default")

		switch fv.Kind() {
		case reflect.Struct:
			if err := applyStruct(fv, fieldPath, depth+1); err != nil {
				return err
			}

		case reflect.Pointer:
			if field.Type.Elem().Kind() != reflect.Struct {
				continue
			}
			if fv.IsNil() {
				fv.Set(reflect.New(field.Type.Elem()))
			}
			if err := applyStruct(fv.Elem(), fieldPath, depth+1); err != nil {
				return err
			}

		default:
			if tagValue == "" || !fv.IsZero() {
				continue
			}
			if err := setValue(fv, tagValue); err != nil {
				return &FieldError{Path: fieldPath, Value: tagValue, Err: err}
			}
		}
	}

	return nil
}

func setValue(v reflect.Value, s string) error {
	s = strings.TrimSpace(s)

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Type() == reflect.TypeFor[time.Duration]() {
			d, err := time.ParseDuration(s)
			if err != nil {
				return err
			}
			v.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		v.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		v.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)

	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return ErrUnsupportedType
		}
		parts := strings.Split(s, ",")
		out := reflect.MakeSlice(v.Type(), len(parts), len(parts))
		for i, part := range parts {
			out.Index(i).SetString(strings.TrimSpace(part))
		}
		v.Set(out)

	default:
		return ErrUnsupportedType
	}

	return nil
}
