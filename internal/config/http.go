package config

const (
	HCType           = "Content-Type"
	HETag            = "ETag"
	HCacheControl    = "Cache-Control"
	HContentEncoding = "Content-Encoding"
	HAcceptEncoding  = "Accept-Encoding"
	HAdminToken      = "X-Admin-Token"
	HRequestID       = "X-Request-Id"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html"
	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)
