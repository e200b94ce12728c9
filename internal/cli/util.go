package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFile holds extra exclude rules for --glob runs, read from --path.
const IgnoreFile = ".generatepytestignore"

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

func LoadIgnoreRules(rootPath string) ([]string, error) {
	ignorePath := filepath.Join(rootPath, IgnoreFile)
	f, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgnoreFile, err)
	}

	return rules, nil
}

// PrintUsage writes the parameter help shown when the command runs bare.
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Parameters:")
	fmt.Fprintln(w, "--path <path/to/dir> : REQUIRED - the directory where the file can be found")
	fmt.Fprintln(w, "--filename <file.py> : REQUIRED - the filename inside the specified directory to generate a test for")
}
