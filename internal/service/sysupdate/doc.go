// Package sysupdate implements the package updater stage: index refresh,
// non-interactive full upgrade keeping existing configuration on conflicts,
// and removal of unused packages and caches.
package sysupdate
