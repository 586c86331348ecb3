package state

// Option configures a Notifier or an Injected container.
type Option func(*config)

type config struct {
	name        string
	autoDispose *Scheduler
	hooks       Hooks

	autoDisposeDefault bool
}

func newConfig(opts []Option) *config {
	cfg := &config{hooks: NopHooks{}}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.hooks == nil {
		cfg.hooks = NopHooks{}
	}
	return cfg
}

// WithName sets the diagnostic name used in hooks and error reports.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithAutoDispose disposes the notifier when its last observer unsubscribes.
// The check runs on the next turn of sched, so an observer that unsubscribes
// and a new one that subscribes within the same turn keep the state alive.
func WithAutoDispose(sched *Scheduler) Option {
	return func(c *config) {
		c.autoDispose = sched
	}
}

// AutoDispose is WithAutoDispose on the registry's scheduler. It only has an
// effect on containers created through a Registry.
func AutoDispose() Option {
	return func(c *config) {
		c.autoDisposeDefault = true
	}
}

// WithHooks installs lifecycle hooks, typically a metrics collector.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		c.hooks = h
	}
}
