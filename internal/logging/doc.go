// Package logging builds the zerolog loggers used by matbench.
package logging
