package store

import "strings"

var symbolReplacer = strings.NewReplacer(
	"=", "_EQ_",
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// Sanitize maps a raw ticker symbol to a filesystem-safe record name.
// Yahoo futures/FX symbols like "GC=F" or "EURUSD=X" contain characters
// that are not portable across filesystems.
func Sanitize(symbol string) string {
	return symbolReplacer.Replace(symbol)
}
