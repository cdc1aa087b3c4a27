package observer

// Observable holds a set of observers and notifies all of them on
// every NotifyObservers call. Trimmed to the surface transport actually
// exercises (a single AddObserver per Endpoint, never removed) — the
// teacher's once-only and removal variants had no caller here.
type Observable[T any] struct {
	observers []Observer[T]
}

// NewObservable creates a new Observable instance.
func NewObservable[T any]() *Observable[T] {
	return &Observable[T]{
		observers: make([]Observer[T], 0),
	}
}

// AddObserver adds an observer to the observable.
func (o *Observable[T]) AddObserver(observer Observer[T]) {
	o.observers = append(o.observers, observer)
}

// NotifyObservers notifies all observers with the given data.
func (o *Observable[T]) NotifyObservers(data T) {
	for _, observer := range o.observers {
		observer.Update(data)
	}
}
