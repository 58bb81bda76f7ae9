package valueobject

import "strings"

// FilePath is a storage key for an uploaded object (song file, cover
// image, avatar). An unset path is represented by the empty string.
type FilePath struct {
	value string
}

func NewFilePath(raw string) FilePath {
	return FilePath{value: strings.TrimSpace(raw)}
}

// EmptyFilePath is the zero path, used when a reference is cleared.
func EmptyFilePath() FilePath { return FilePath{} }

func (f FilePath) Value() string { return f.value }
func (f FilePath) IsEmpty() bool { return f.value == "" }
