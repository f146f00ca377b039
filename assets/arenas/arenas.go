// Package arenas embeds the arena maps. It is shared by the client and the
// relay server, so it must not pull in any graphics packages.
package arenas

import "embed"

//go:embed *.tmx
var FS embed.FS

// Default is the map both binaries load unless told otherwise.
const Default = "arena.tmx"
