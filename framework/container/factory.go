package container

import (
	"fmt"
	"math"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// FuncFactory adapts an ordinary function to a Factory. Resolved arguments
// are passed in order: nil becomes the parameter's zero value, and numeric
// values are converted between numeric kinds when the value survives the
// conversion exactly. The function may return nothing, a value, or a value
// and an error.
//
//	f, _ := container.FuncFactory(func(host string, port int) string {
//	    return fmt.Sprintf("%s:%d", host, port)
//	})
func FuncFactory(fn any) (Factory, error) {
	switch f := fn.(type) {
	case Factory:
		if f == nil {
			return nil, ErrNotFunc
		}
		return f, nil
	case func(*Entity, ...any) (any, error):
		if f == nil {
			return nil, ErrNotFunc
		}
		return Factory(f), nil
	}

	rv := reflect.ValueOf(fn)
	if !rv.IsValid() || rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, ErrNotFunc
	}
	rt := rv.Type()
	switch {
	case rt.NumOut() > 2,
		rt.NumOut() == 2 && !rt.Out(1).Implements(errorType):
		return nil, fmt.Errorf("container: %s must return (T) or (T, error)", rt)
	}

	return func(self *Entity, args ...any) (any, error) {
		in, err := callArgs(self.Name(), rt, args)
		if err != nil {
			return nil, err
		}
		out := rv.Call(in)
		switch len(out) {
		case 0:
			return nil, nil
		case 1:
			if rt.Out(0) == errorType {
				return nil, asError(out[0])
			}
			return out[0].Interface(), nil
		default:
			if err := asError(out[1]); err != nil {
				return nil, err
			}
			return out[0].Interface(), nil
		}
	}, nil
}

// asError unwraps an error result. A nil pointer of a concrete error type
// counts as no error.
func asError(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	err, _ := v.Interface().(error)
	return err
}

func callArgs(name string, rt reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := rt.NumIn()
	if rt.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, &ArityError{Name: name, Want: fixed, Got: len(args)}
		}
	} else if len(args) != fixed {
		return nil, &ArityError{Name: name, Want: fixed, Got: len(args)}
	}

	in := make([]reflect.Value, 0, len(args))
	for i, a := range args {
		var t reflect.Type
		if i < fixed {
			t = rt.In(i)
		} else {
			t = rt.In(fixed).Elem()
		}
		v, err := argValue(name, a, t)
		if err != nil {
			return nil, err
		}
		in = append(in, v)
	}
	return in, nil
}

func argValue(name string, a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(t.Kind()) {
		if out, ok := convertNumber(v, t); ok {
			return out, nil
		}
		return reflect.Value{}, &WrongTypeError{
			Name: name,
			Want: t.String(),
			Got:  fmt.Sprintf("%s %v", v.Type(), v.Interface()),
		}
	}
	return reflect.Value{}, &WrongTypeError{Name: name, Want: t.String(), Got: v.Type().String()}
}

// convertNumber converts v to t. ok is false when the value would overflow,
// change sign or lose a fractional part.
func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	out := reflect.New(t).Elem()
	switch {
	case v.CanInt():
		n := v.Int()
		switch {
		case out.CanInt():
			if out.OverflowInt(n) {
				return reflect.Value{}, false
			}
			out.SetInt(n)
		case out.CanUint():
			if n < 0 || out.OverflowUint(uint64(n)) {
				return reflect.Value{}, false
			}
			out.SetUint(uint64(n))
		default:
			out.SetFloat(float64(n))
		}
	case v.CanUint():
		n := v.Uint()
		switch {
		case out.CanInt():
			if n > math.MaxInt64 || out.OverflowInt(int64(n)) {
				return reflect.Value{}, false
			}
			out.SetInt(int64(n))
		case out.CanUint():
			if out.OverflowUint(n) {
				return reflect.Value{}, false
			}
			out.SetUint(n)
		default:
			out.SetFloat(float64(n))
		}
	default:
		f := v.Float()
		if out.CanFloat() {
			if out.OverflowFloat(f) {
				return reflect.Value{}, false
			}
			out.SetFloat(f)
			return out, true
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
			return reflect.Value{}, false
		}
		switch {
		case out.CanInt():
			if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
				return reflect.Value{}, false
			}
			out.SetInt(int64(f))
		default:
			if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return reflect.Value{}, false
			}
			out.SetUint(uint64(f))
		}
	}
	return out, true
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
