package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// Embed the static frontend
//
//go:embed static/*
var frontendFS embed.FS

// GetFileSystem returns the embedded filesystem for serving frontend files
func GetFileSystem() (http.FileSystem, error) {
	static, err := fs.Sub(frontendFS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(static), nil
}
