//go:build windows

package etabs

import (
	ole "github.com/go-ole/go-ole"
)

// outArgs holds by-reference VARIANT arguments filled in by the callee.
type outArgs []*ole.VARIANT

func newOuts(n int) outArgs {
	o := make(outArgs, n)
	for i := range o {
		v := ole.NewVariant(ole.VT_EMPTY, 0)
		o[i] = &v
	}
	return o
}

func (o outArgs) args() []any {
	a := make([]any, len(o))
	for i, v := range o {
		a[i] = v
	}
	return a
}

func (o outArgs) clear() {
	for _, v := range o {
		_ = ole.VariantClear(v)
	}
}

func (o outArgs) floats(i int) []float64 {
	arr := o[i].ToArray()
	if arr == nil {
		return nil
	}
	vals := arr.ToValueArray()
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		switch x := v.(type) {
		case float64:
			out = append(out, x)
		case float32:
			out = append(out, float64(x))
		}
	}
	return out
}

func (o outArgs) strings(i int) []string {
	arr := o[i].ToArray()
	if arr == nil {
		return nil
	}
	vals := arr.ToValueArray()
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// callStatus converts the return value of an automation call to a status.
func callStatus(v *ole.VARIANT, err error) int {
	if err != nil || v == nil {
		return statusCallFailed
	}
	defer v.Clear()
	switch x := v.Value().(type) {
	case int32:
		return int(x)
	case int64:
		return int(x)
	case int16:
		return int(x)
	case int8:
		return int(x)
	case uint8:
		return int(x)
	case int:
		return x
	case nil:
		return statusCallFailed
	default:
		return statusCallFailed
	}
}
