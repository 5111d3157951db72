package carbon

import "github.com/rs/zerolog"

// logger receives factor-parse warnings. It discards output until SetLogger is called.
var logger = zerolog.Nop()

// SetLogger sets the logger used while parsing factor tables.
// Call it once at startup, before any table is parsed.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "carbon").Logger()
}
