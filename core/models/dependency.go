package models

// CopiedDependency records one vendored package file.
type CopiedDependency struct {
	OriginalPath  string // file read from the dependencies root
	GeneratedPath string // file written under the destination tree
	URL           string // reference written back into the source file
	Skipped       bool   // destination already held identical bytes
}
