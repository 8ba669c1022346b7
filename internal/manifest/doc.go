// Package manifest reads and patches package.json. Reads go through JSON
// paths and writes patch the document in place, so keys the CLI does not
// touch keep their order and values.
package manifest
