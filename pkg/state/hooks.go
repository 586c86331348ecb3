package state

// Hooks observes the lifecycle of notifiers. Implementations must be cheap;
// they run inline with notification.
type Hooks interface {
	// Created is called when a notifier is constructed.
	Created(name string)
	// Notified is called after a notification pass reached observers.
	Notified(name string, kind Kind, observers int)
	// Disposed is called once when a notifier is disposed.
	Disposed(name string)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) Created(string)             {}
func (NopHooks) Notified(string, Kind, int) {}
func (NopHooks) Disposed(string)            {}

// Source is the status view of a container that the combinator and the view
// layer consume without knowing its value type.
type Source interface {
	// Kind returns the tag of the current status.
	Kind() Kind
	// Err returns the cause when Kind is KindError.
	Err() error
	// Listen registers fn to run after every notification and returns a
	// function that removes it.
	Listen(fn func()) (unsubscribe func())
}

// Refresher is implemented by sources that can re-run their creator.
type Refresher interface {
	Refresh()
}
