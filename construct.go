package courier

import (
	"fmt"
	"math"
	"reflect"
)

// Construct 用 args 构造 E 的新值
//
// 规则（与聚合初始化一致）：
//   - 无参数：零值
//   - 单个参数且可直接赋值给 E：整体使用该参数
//   - 结构体：参数依次赋给前 len(args) 个字段，其余字段保持零值；字段必须导出
//   - 切片：参数成为元素
//   - 数组：参数依次赋给前 len(args) 个元素
//   - 其他类型：恰好一个参数
//
// 数值类型之间仅在值保持不变时转换（浮点之间允许舍入），
// 截断、越界或改变符号的参数返回 ErrInvalidArgs；其余必须可赋值。
func Construct[E any](args ...any) (*E, error) {
	event := new(E)
	if err := construct(reflect.ValueOf(event).Elem(), args); err != nil {
		return nil, fmt.Errorf("construct %s: %w", reflect.TypeFor[E](), err)
	}
	return event, nil
}

func construct(v reflect.Value, args []any) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) == 1 && args[0] != nil {
		if a := reflect.ValueOf(args[0]); a.Type().AssignableTo(v.Type()) {
			v.Set(a)
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		if len(args) > v.NumField() {
			return fmt.Errorf("%w: %d arguments for %d fields", ErrInvalidArgs, len(args), v.NumField())
		}
		for i, arg := range args {
			field := v.Type().Field(i)
			if !field.IsExported() {
				return fmt.Errorf("%w: field %s is not exported", ErrInvalidArgs, field.Name)
			}
			if err := assign(v.Field(i), arg); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
		}
		return nil

	case reflect.Slice:
		s := reflect.MakeSlice(v.Type(), len(args), len(args))
		for i, arg := range args {
			if err := assign(s.Index(i), arg); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		v.Set(s)
		return nil

	case reflect.Array:
		if len(args) > v.Len() {
			return fmt.Errorf("%w: %d arguments for array of %d", ErrInvalidArgs, len(args), v.Len())
		}
		for i, arg := range args {
			if err := assign(v.Index(i), arg); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil

	default:
		if len(args) != 1 {
			return fmt.Errorf("%w: %d arguments for %s", ErrInvalidArgs, len(args), v.Type())
		}
		return assign(v, args[0])
	}
}

// assign 将 arg 赋给 dst
func assign(dst reflect.Value, arg any) error {
	if arg == nil {
		switch dst.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		return fmt.Errorf("%w: nil for %s", ErrInvalidArgs, dst.Type())
	}

	a := reflect.ValueOf(arg)
	switch {
	case a.Type().AssignableTo(dst.Type()):
		dst.Set(a)
	case isNumeric(a.Kind()) && isNumeric(dst.Kind()):
		if !fitsNumber(a, dst) {
			return fmt.Errorf("%w: %v does not fit in %s", ErrInvalidArgs, a.Interface(), dst.Type())
		}
		dst.Set(a.Convert(dst.Type()))
	case a.Kind() == reflect.String && dst.Kind() == reflect.String:
		dst.Set(a.Convert(dst.Type()))
	default:
		return fmt.Errorf("%w: cannot use %s as %s", ErrInvalidArgs, a.Type(), dst.Type())
	}
	return nil
}

// fitsNumber 数值 a 转换为 dst 的类型后是否保持不变
//
// 浮点数之间只检查溢出（与常量初始化一样允许舍入）；
// 其余情况要求精确：不截断小数、不越界、不改变符号。
func fitsNumber(a, dst reflect.Value) bool {
	switch {
	case isSigned(dst.Kind()):
		switch {
		case isSigned(a.Kind()):
			return !dst.OverflowInt(a.Int())
		case isUnsigned(a.Kind()):
			return a.Uint() <= math.MaxInt64 && !dst.OverflowInt(int64(a.Uint()))
		default:
			f := a.Float()
			return f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 && !dst.OverflowInt(int64(f))
		}

	case isUnsigned(dst.Kind()):
		switch {
		case isSigned(a.Kind()):
			return a.Int() >= 0 && !dst.OverflowUint(uint64(a.Int()))
		case isUnsigned(a.Kind()):
			return !dst.OverflowUint(a.Uint())
		default:
			f := a.Float()
			return f == math.Trunc(f) && f >= 0 && f < 1<<64 && !dst.OverflowUint(uint64(f))
		}

	default:
		switch {
		case isSigned(a.Kind()):
			v := a.Int()
			f := float64(v)
			return f < 1<<63 && int64(f) == v && exactFloat(dst, f)
		case isUnsigned(a.Kind()):
			v := a.Uint()
			f := float64(v)
			return f < 1<<64 && uint64(f) == v && exactFloat(dst, f)
		default:
			return !dst.OverflowFloat(a.Float())
		}
	}
}

// exactFloat 整数值 f 在 dst 的浮点类型中能否精确表示
func exactFloat(dst reflect.Value, f float64) bool {
	if dst.Kind() == reflect.Float32 {
		return float64(float32(f)) == f
	}
	return true
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
