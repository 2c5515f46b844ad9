package converting

// If nil returns the default value for the type
func Unwrap[T any](x *T) (r T) {
	if x != nil {
		r = *x
	}

	return
}

func PointerToValue[T any](v T) *T {
	return &v
}

// NilIfZero keeps optional JSON fields out of payloads when the form left them empty.
func NilIfZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}

	return &v
}
