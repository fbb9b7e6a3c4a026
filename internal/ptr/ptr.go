// Package ptr provides helpers for optional fields modelled as pointers.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Clone returns a pointer to a copy of *p, or nil when p is nil.
// The copy is shallow.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NonZero returns a pointer to v, or nil when v is the zero value.
// Useful for optional text columns where "" means absent.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// ToString converts a pointer to a string-based type (such as a domain enum)
// to its string value. Returns "" for nil.
func ToString[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}
