package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	dryRun bool
	watch  bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithDryRun makes the publish run report without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(a *application) {
		a.dryRun = dryRun
	}
}

// WithWatch keeps the process alive after the first publish, republishing
// on vault changes.
func WithWatch(watch bool) Option {
	return func(a *application) {
		a.watch = watch
	}
}
