// Package osinfo reads the distribution identity from /etc/os-release.
//
// The provisioning pipeline needs the distribution ID and release codename
// to build the Docker apt repository definition, and refuses to run on
// distributions that are not apt based.
package osinfo
