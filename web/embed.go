// Package web holds the browser chat page served at the site root.
package web

import _ "embed"

// IndexHTML is the single-page chat UI.
//
//go:embed index.html
var IndexHTML string
