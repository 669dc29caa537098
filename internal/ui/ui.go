// Package ui defines the rendering primitives the page controllers talk to.
// The browser DOM of the original mini-app is reduced to small interfaces;
// the console implementation makes the module runnable headlessly.
package ui

import "strings"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notice is a toast or banner payload.
type Notice struct {
	Type    Level
	Title   string
	Message string
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes user-supplied text for embedding into markup.
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}
	return htmlEscaper.Replace(text)
}
