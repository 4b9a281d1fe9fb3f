// Package types defines the pets contract: the table and column names, the
// gender enumeration, the content addresses, the Pet record, and the Provider
// and Cursor interfaces shared by the store, the CLI, and the HTTP surface.
package types
