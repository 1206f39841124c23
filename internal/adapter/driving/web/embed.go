package web

import "embed"

// StaticFS holds the embedded static assets (view script and stylesheet).
//
//go:embed static/*
var StaticFS embed.FS
