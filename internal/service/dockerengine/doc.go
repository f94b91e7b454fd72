// Package dockerengine implements the container runtime installer stage:
// legacy package removal, vendor repository registration (signing key plus
// sources.list.d definition), engine installation and service enablement.
package dockerengine
