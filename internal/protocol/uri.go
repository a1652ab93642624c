package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DocumentURI is a file:// URI. Only the file scheme is accepted;
// the path component is captured verbatim, with no percent-decoding, to
// match what editors actually send for local paths.
type DocumentURI struct {
	Path string
}

const fileScheme = "file://"

// ParseDocumentURI accepts only file:// URIs.
func ParseDocumentURI(s string) (DocumentURI, error) {
	path, ok := strings.CutPrefix(s, fileScheme)
	if !ok {
		return DocumentURI{}, fmt.Errorf("unsupported URI scheme: %q", s)
	}
	return DocumentURI{Path: path}, nil
}

func (u DocumentURI) String() string {
	return fileScheme + u.Path
}

func (u DocumentURI) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *DocumentURI) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDocumentURI(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Location pairs a URI with a range inside it.
type Location struct {
	URI   DocumentURI `json:"uri"`
	Range Range       `json:"range"`
}
