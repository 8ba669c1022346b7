// Package pkgmanager detects which JavaScript package manager (npm, yarn or
// pnpm) invoked the CLI and runs that manager's init and add-dev-dependency
// commands with the argument syntax each one expects.
package pkgmanager
