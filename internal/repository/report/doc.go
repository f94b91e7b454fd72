// Package report persists the provisioning run report as a YAML file.
//
// The Repository interface keeps the pipeline decoupled from storage;
// FileRepository is the disk-backed implementation used in production.
package report
