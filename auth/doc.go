// Package auth supplies the service-identity tokens the client attaches to
// outbound requests. Downstream services validate the tokens; this side
// only mints or forwards them.
package auth
