// Package autopatch implements the automatic patching configurator stage:
// it installs the unattended-upgrade agent, writes the periodic schedule and
// upgrade policy snippets under /etc/apt/apt.conf.d, restarts the agent and
// runs an informational dry-run self-check.
//
// The snippet contents are embedded at build time and written verbatim,
// overwriting whatever was there before.
package autopatch
