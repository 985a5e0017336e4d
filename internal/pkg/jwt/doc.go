// Package jwt issues and verifies the admin bearer tokens that authorize
// CLI and broker admin commands, and carries the verified actor in the
// request context.
package jwt
