// Package common holds helpers shared by provisioning services:
// privilege and invoker detection plus the package-manager busy check
// that guards against dpkg lock contention.
package common
