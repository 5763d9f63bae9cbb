package util

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// InitDir initializes the parent directory of path with the given mode
func InitDir(path string, mode fs.FileMode) error {
	expandedDir := os.ExpandEnv(path)
	fullPath := filepath.Dir(expandedDir)
	err := os.MkdirAll(fullPath, mode)
	return err
}

func CheckError(err error) {
	// For now just delegate to Cobra's CheckErr
	cobra.CheckErr(err)
}
