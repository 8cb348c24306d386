// Package ui holds the color themes shared by the plain-text renderer and the
// dashboard. It honours --no-color and the NO_COLOR environment variable.
package ui
