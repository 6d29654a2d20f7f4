// assets/embed.go
//
// Embedded data shipped with the binary:
//   - dictionary.txt: default word list (one lowercase word per line).
//   - sql/*.sql:      schema migrations applied at startup.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed dictionary.txt sql/*.sql
var FS embed.FS

// Dictionary returns the raw embedded default word list.
func Dictionary() ([]byte, error) {
	return FS.ReadFile("dictionary.txt")
}

// Migrations exposes the sql/ directory rooted at its own top level.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}
