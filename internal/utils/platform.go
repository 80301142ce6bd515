package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// IsExecutable reports whether the file at path, described by info, can be
// run. On Windows that is decided by extension (see PATHEXT), elsewhere by
// any execute permission bit.
func IsExecutable(path string, info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return hasExecutableExt(path, executableExts(os.Getenv("PATHEXT")))
	}
	return info.Mode().Perm()&0111 != 0
}

// executableExts parses a PATHEXT value into lowercase extensions with a
// leading dot. An empty value yields the Windows defaults.
func executableExts(pathext string) map[string]bool {
	if strings.TrimSpace(pathext) == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	exts := map[string]bool{}
	for _, ext := range SplitAndTrim(pathext, ";") {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}

func hasExecutableExt(path string, exts map[string]bool) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && exts[ext]
}
