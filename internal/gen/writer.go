package gen

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"standin-generator/internal/synth"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "calculator_stand_in.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// FilesOf converts synthesis artifacts to files, appending suffix to each
// file name, e.g. "_test" for stand-ins used only by tests.
func FilesOf(artifacts []synth.Artifact, suffix string) []GeneratedFile {
	files := make([]GeneratedFile, len(artifacts))
	for i, a := range artifacts {
		name := a.FileName
		if suffix != "" {
			name = name[:len(name)-len(filepath.Ext(name))] + suffix + filepath.Ext(name)
		}

		files[i] = GeneratedFile{Filename: name, Content: a.Source}
	}

	return files
}

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return errors.Wrapf(err, "writing file %s", file.Filename)
		}
	}

	return nil
}
