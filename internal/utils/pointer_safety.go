// Package utils holds small nil-safe pointer helpers for the optional
// fields the backend serves (e.g. full_name).
package utils

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
