// Package mapper holds small generic helpers for converting between layers.
package mapper

// MapSlice applies mapFunc to each element. A nil input stays nil so
// JSON encoders can tell "absent" from "empty".
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, mapFunc(item))
	}
	return result
}

// MapNonNil is MapSlice for pointer slices, dropping nil elements.
func MapNonNil[T any, R any](items []*T, mapFunc func(*T) R) []R {
	if items == nil {
		return nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		if item != nil {
			result = append(result, mapFunc(item))
		}
	}
	return result
}
