// Package ui holds the color themes shared by the CLI output and the
// dashboard. ANSI accessors (ColorRed, ColorReset, ...) read the active
// theme, so disabling color is a single InitTheme call.
package ui
