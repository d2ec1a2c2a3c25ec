// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Modules depend on the Config interface so they stay easy to test and do not
// care where values come from. The Viper implementation reads a YAML file and
// lets GOPROFILE_* environment variables override any key.
package pkgconfig
