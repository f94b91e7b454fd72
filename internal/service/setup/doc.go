// Package setup orchestrates the one-shot provisioning pipeline:
// preflight checks, package updates, Docker Engine installation,
// unattended-upgrades configuration, docker group grants, the run report
// and the scheduled reboot.
//
// Stages execute strictly in order and the run aborts on the first
// unexpected failure, matching the fail-fast shell workflow it replaces.
package setup
