// Package power schedules and cancels the post-provisioning reboot using
// the standard shutdown tool.
package power
