package domain

// Updater is either a literal next value or a transform of the previous one.
// The zero Updater is the literal zero value of T.
type Updater[T any] struct {
	value T
	fn    func(T) T
}

// OnChangeFunc receives state updates in updater form.
type OnChangeFunc[T any] func(Updater[T])

// Set returns an Updater that replaces the previous value with v.
func Set[T any](v T) Updater[T] {
	return Updater[T]{value: v}
}

// Update returns an Updater that derives the next value from the previous one.
// A nil fn behaves like Set of the zero value.
func Update[T any](fn func(prev T) T) Updater[T] {
	return Updater[T]{fn: fn}
}

// IsFunc reports whether the updater is a transform.
func (u Updater[T]) IsFunc() bool {
	return u.fn != nil
}

// Apply returns the next value given the previous one.
func (u Updater[T]) Apply(prev T) T {
	if u.fn != nil {
		return u.fn(prev)
	}
	return u.value
}

// FunctionalUpdate applies updater to input.
func FunctionalUpdate[T any](updater Updater[T], input T) T {
	return updater.Apply(input)
}
