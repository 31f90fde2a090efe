package asm

import (
	"fmt"
	"path/filepath"
	"strings"

	"gochip8/pkg/utils"
)

// LoadImage returns the program image stored at path. Files ending in .asm
// or .s are assembled first, anything else is taken as a raw image.
func LoadImage(path string) ([]byte, error) {
	data, err := utils.ReadProgram(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s":
		code, _, err := Assemble(string(data))
		if err != nil {
			return nil, fmt.Errorf("assembling '%s': %w", path, err)
		}
		return code, nil
	default:
		return data, nil
	}
}
