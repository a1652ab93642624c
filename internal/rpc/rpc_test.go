package rpc

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMessageFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, []byte(`{"a":1}`)))
	assert.Equal(t, "Content-Length: 7\r\n\r\n{\"a\":1}", buf.String())
}

func TestReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, []byte(`{"hello":"world"}`)))

	content, err := ReadMessage(bufio.NewReader(&buf))
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, string(content))
}

func TestReadMessageMissingHeader(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("not a header at all"))
	_, err := ReadMessage(r)
	assert.Error(t, err)
}

func TestReadMessageZeroLength(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Content-Length: 0\r\n\r\n"))
	_, err := ReadMessage(r)
	assert.Error(t, err)
}

func TestReadMessageShortBody(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Content-Length: 10\r\n\r\nabc"))
	_, err := ReadMessage(r)
	assert.Error(t, err)
}

func TestIsNotification(t *testing.T) {
	id := uint32(1)
	assert.False(t, Request{ID: &id}.IsNotification())
	assert.True(t, Request{}.IsNotification())
}

func TestSuccessAndFailure(t *testing.T) {
	id := uint32(5)
	resp, err := Success(&id, map[string]int{"x": 1})
	require.NoError(t, err)
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, `{"x":1}`, string(resp.Result))

	failed := Failure(&id, NewError(InvalidParams, "bad"))
	assert.Equal(t, InvalidParams, failed.Error.Code)
}

func TestMethodNotFoundErr(t *testing.T) {
	err := MethodNotFoundErr("textDocument/foo")
	assert.Equal(t, MethodNotFound, err.Code)
	assert.Contains(t, err.Message, "textDocument/foo")
}
