// Package common provides the page layout, flash messages and request
// helpers shared by the board and FMS features.
package common

import "github.com/a-h/templ"

// SiteName is appended to every page title.
const SiteName = "FMS Board"

// Page describes a full page render.
type Page struct {
	Title   string
	Flashes []string
	Scripts []string
	Body    templ.Component
}
