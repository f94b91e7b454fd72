// Package config defines provisioning settings and provides helpers
// to load, validate and save them in YAML format.
//
// The Config type holds the extra users granted docker access,
// the reboot delay and the run report location. A missing settings file
// is not an error: defaults are used instead.
package config
