package golang

import "go/types"

// convKind classifies the conversion of a value of type from to type to.
func convKind(from, to types.Type) string {
	f, t := from.Underlying(), to.Underlying()
	switch {
	case types.Identical(from, to), types.Identical(f, t):
		return "NoOp"
	case types.IsInterface(t):
		return "ToInterface"
	case isString(t) && isSliceOf(f, types.Uint8):
		return "BytesToString"
	case isString(t) && isSliceOf(f, types.Int32):
		return "RunesToString"
	case isString(t) && isInteger(f):
		return "IntegralToString"
	case isString(f) && isSliceOf(t, types.Uint8):
		return "StringToBytes"
	case isString(f) && isSliceOf(t, types.Int32):
		return "StringToRunes"
	case isInteger(f) && isInteger(t):
		return "IntegralCast"
	case isInteger(f) && isFloat(t):
		return "IntegralToFloating"
	case isFloat(f) && isInteger(t):
		return "FloatingToIntegral"
	case isFloat(f) && isFloat(t):
		return "FloatingCast"
	case isSlice(f) && isArrayPointer(t):
		return "SliceToArrayPointer"
	case isSlice(f) && isArray(t):
		return "SliceToArray"
	case isPointerLike(f) && isPointerLike(t),
		isUnsafePointer(f) && isInteger(t),
		isInteger(f) && isUnsafePointer(t):
		return "PointerCast"
	}
	return "Conversion"
}

func basicInfo(t types.Type) types.BasicInfo {
	if b, ok := t.(*types.Basic); ok {
		return b.Info()
	}
	return 0
}

func isString(t types.Type) bool  { return basicInfo(t)&types.IsString != 0 }
func isInteger(t types.Type) bool { return basicInfo(t)&types.IsInteger != 0 }
func isFloat(t types.Type) bool   { return basicInfo(t)&types.IsFloat != 0 }

func isUnsafePointer(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.UnsafePointer
}

func isPointerLike(t types.Type) bool {
	_, ok := t.(*types.Pointer)
	return ok || isUnsafePointer(t)
}

func isSlice(t types.Type) bool {
	_, ok := t.(*types.Slice)
	return ok
}

func isArray(t types.Type) bool {
	_, ok := t.(*types.Array)
	return ok
}

func isArrayPointer(t types.Type) bool {
	p, ok := t.(*types.Pointer)
	return ok && isArray(p.Elem().Underlying())
}

// isSliceOf reports whether t is a slice whose element has the given basic
// kind. byte and rune are aliases of uint8 and int32.
func isSliceOf(t types.Type, kind types.BasicKind) bool {
	s, ok := t.(*types.Slice)
	if !ok {
		return false
	}
	b, ok := s.Elem().Underlying().(*types.Basic)
	return ok && b.Kind() == kind
}
