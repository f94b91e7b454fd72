// Package access implements the post-setup reconciler stage: it grants the
// invoking sudo user and any configured extra users membership in the docker
// group and restarts the runtime service. Grants are additive and never
// revoke existing memberships.
package access
