package content

import (
	"embed"
	"io/fs"
)

//go:embed all:data
var embedded embed.FS

// Embedded returns the registry data compiled into the binary, rooted at the
// content directory.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
