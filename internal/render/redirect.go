package render

import (
	"html/template"
	"io"
)

var redirectTemplate = template.Must(template.New("redirect").Parse(
	`<!DOCTYPE html><html><head><title>{{.}}</title>` +
		`<link rel="canonical" href="{{.}}"/>` +
		`<meta name="robots" content="noindex">` +
		`<meta http-equiv="content-type" content="text/html; charset=utf-8" />` +
		`<meta http-equiv="refresh" content="0; url={{.}}" />` +
		`</head></html>`))

// WriteRedirect writes an alias page that redirects to target.
func WriteRedirect(w io.Writer, target string) error {
	return redirectTemplate.Execute(w, target)
}
