// Package cli defines the Cobra command tree for tsup-init. The root command
// runs the bootstrap pipeline; it only resolves configuration, sets up
// logging and the prompt, and delegates the work to internal/bootstrap.
package cli
