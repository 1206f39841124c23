package fixture

import (
	"embed"
	"io/fs"
)

//go:embed data/*.yaml
var embedded embed.FS

// Embedded returns the fixture set compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err) // the data directory is part of the embed pattern
	}
	return sub
}
