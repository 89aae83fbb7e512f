package util

import (
	"os"
	"path"
	"strings"
)

// WriteToFile writes the given lines to a file, creating parent directories
// as needed. An existing file is replaced.
func WriteToFile(savePath string, lines ...string) error {
	if err := os.MkdirAll(path.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// AppendToFile appends the given lines to a file, creating it and its
// parent directories if needed.
func AppendToFile(savePath string, lines ...string) error {
	if err := os.MkdirAll(path.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, l := range lines {
		if _, err = f.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return nil
}
