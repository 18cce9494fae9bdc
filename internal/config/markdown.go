package config

import "regexp"

var (
	RegexCallout = regexp.MustCompile(`//\s*<<(\d+)>>`)
)
