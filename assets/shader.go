package assets

import (
	"encoding/binary"
	"fmt"
	"io/fs"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// LoadShaderBytecode reads a compiled SPIR-V module from fsys.
func LoadShaderBytecode(fsys fs.FS, path string) ([]byte, error) {
	code, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading shader: %w", err)
	}

	if len(code) < 4 || len(code)%4 != 0 {
		return nil, fmt.Errorf("shader %s: size %d is not a positive multiple of 4", path, len(code))
	}
	if magic := binary.LittleEndian.Uint32(code); magic != spirvMagic {
		return nil, fmt.Errorf("shader %s: not SPIR-V, magic number %#08x", path, magic)
	}

	return code, nil
}
