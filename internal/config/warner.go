package config

type Warner interface {
	Warnf(format string, args ...any)
}
