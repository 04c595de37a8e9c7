package models

import "path/filepath"

// File is one unit of work flowing through a pipeline. Path is the location
// the file was read from and Base the glob root it was found under.
type File struct {
	Base     string
	Path     string
	Contents []byte
}

func NewFile(base, path string, contents []byte) *File {
	return &File{Base: base, Path: path, Contents: contents}
}

// Relative returns Path relative to Base, or the base name of Path when the
// two are unrelated.
func (f *File) Relative() string {
	if f.Base != "" {
		if rel, err := filepath.Rel(f.Base, f.Path); err == nil {
			return rel
		}
	}
	return filepath.Base(f.Path)
}
