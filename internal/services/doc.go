// Package services groups clients for the external tools the provisioner
// drives. Each client lives in its own subpackage and exposes a small
// interface so stages can be tested without the real binary.
package services
