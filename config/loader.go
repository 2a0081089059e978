package config

// Loader fills a target struct from some configuration source.
type Loader interface {
	Load(target any) error

	// Watch invokes callback whenever the source changes.
	Watch(callback func()) error
}
