// Package runner wraps os/exec behind a small interface so provisioning
// services can be exercised in tests without touching the host.
//
// Commands run synchronously, inherit the process environment with optional
// additions, and report combined output plus exit code on failure.
package runner
