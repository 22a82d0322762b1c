package util

// Map applies a function to the given slice and returns the transformed slice.
func Map[T, R any](slice []T, f func(T) R) []R {
	mSlice := make([]R, len(slice))

	for i, elem := range slice {
		mSlice[i] = f(elem)
	}

	return mSlice
}

// Filter returns the elements of the slice for which the predicate holds.  The
// relative order of the elements is preserved.
func Filter[T any](slice []T, pred func(T) bool) []T {
	var fSlice []T

	for _, elem := range slice {
		if pred(elem) {
			fSlice = append(fSlice, elem)
		}
	}

	return fSlice
}

// All returns whether the predicate holds for every element of the slice.
func All[T any](slice []T, pred func(T) bool) bool {
	for _, elem := range slice {
		if !pred(elem) {
			return false
		}
	}

	return true
}
