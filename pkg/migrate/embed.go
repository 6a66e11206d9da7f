package migrate

import (
	"embed"
)

// EmbeddedDir is the directory of the embedded migrations inside Embedded.
const EmbeddedDir = "migrations"

// Embedded carries the SQL migrations compiled into the binary.
//
//go:embed migrations/*.sql
var Embedded embed.FS

// EmbeddedSource points at the migrations compiled into the binary, so the api process
// does not depend on its working directory.
func EmbeddedSource() Source {
	return Source{FS: Embedded, Dir: EmbeddedDir}
}
