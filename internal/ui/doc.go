// Package ui renders command lifecycle events as short console lines for
// operators running docpush with the console log format.
package ui
