// Package resources provides the clients the drill-down controller loads users, albums, and photos through.
package resources
