// Package web embeds the HTML templates and static assets served by the app.
package web

import "embed"

// Views holds the templates under views/, rendered by the html engine.
//
//go:embed all:views
var Views embed.FS

// Static holds the files served under /static.
//
//go:embed static
var Static embed.FS
