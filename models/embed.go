package models

import "embed"

// FS contains the meshes drawn by the 3D pass. Embedding them makes it
// possible to copy a single binary to another machine.
//
//go:embed cube.obj
var FS embed.FS

// Cube is the name of the background mesh in FS.
const Cube = "cube.obj"
