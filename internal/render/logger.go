package render

import "github.com/rs/zerolog"

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l.With().Str("component", "render").Logger()
}
