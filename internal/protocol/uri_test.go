package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentURIRequiresFileScheme(t *testing.T) {
	u, err := ParseDocumentURI("file:///home/user/script.sh")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/script.sh", u.Path)

	_, err = ParseDocumentURI("http://example.com/script.sh")
	assert.Error(t, err)
}

func TestDocumentURIStringRoundTrips(t *testing.T) {
	u, err := ParseDocumentURI("file:///tmp/build.sh")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/build.sh", u.String())
}

func TestDocumentURIJSONRoundTrips(t *testing.T) {
	u, err := ParseDocumentURI("file:///tmp/build.sh")
	require.NoError(t, err)

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Equal(t, `"file:///tmp/build.sh"`, string(data))

	var decoded DocumentURI
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, u, decoded)
}

func TestDocumentURIUnmarshalRejectsUnsupportedScheme(t *testing.T) {
	var u DocumentURI
	err := json.Unmarshal([]byte(`"ftp://example.com/x"`), &u)
	assert.Error(t, err)
}
