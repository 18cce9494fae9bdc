// Package routes defines HTTP route constants for the application.
package routes

const (
	// Static and assets
	RobotsPath = "/robots.txt"
	StaticPath = "/static/"
	ImagesPath = "/images/"

	// Pages
	RootPath  = "/"
	PostsPath = "/posts/"

	// API
	APIPosts           = "/api/posts"
	APICacheInvalidate = "/api/cache/invalidate"
)
