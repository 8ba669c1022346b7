// Package scaffold renders tsup.config.ts from an embedded template. It
// powers the last step of a run, asking before it replaces a config the
// user already has.
package scaffold
