// Package bootstrap runs the tsup setup pipeline against one project
// directory: detect the package manager, ensure package.json, install the
// build tooling, add the build script, resolve the entry point, and write
// tsup.config.ts. Stages run strictly in that order and any error stops the
// run; files written by earlier stages are left in place.
package bootstrap
