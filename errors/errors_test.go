package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	err := New(CodeFolderNotFound, "folder not found")
	assert.Equal(t, CodeFolderNotFound, err.Code)

	cause := fmt.Errorf("disk full")
	wrapped := Wrap(cause, CodePersistence, "write failed")
	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, Is(wrapped, CodePersistence))
	assert.False(t, Is(wrapped, CodeConversion))

	detailed := err.WithDetail("folder", "abc").WithDetail("index", 3)
	assert.Equal(t, "abc", detailed.Details["folder"])
	assert.Equal(t, 3, detailed.Details["index"])
}

func TestIsThroughFmtWrapping(t *testing.T) {
	inner := Conversion("jei", "empty stack")
	outer := fmt.Errorf("render slot 4: %w", inner)

	assert.True(t, Is(outer, CodeConversion))
	assert.Equal(t, CodeConversion, GetCode(outer))
	assert.False(t, Is(nil, CodeConversion))
	assert.Equal(t, ErrorCode(""), GetCode(fmt.Errorf("plain")))
}

func TestProtocolViolationCountsAsConversion(t *testing.T) {
	err := ProtocolViolation("rei", "toRef", "nil entry type")

	assert.True(t, Is(err, CodeProtocolViolation))
	assert.True(t, Is(err, CodeConversion), "protocol violations degrade like conversion failures")
	assert.False(t, Is(Conversion("rei", "x"), CodeProtocolViolation))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code ErrorCode
		key  string
		want any
	}{
		{"conversion", Conversion("emi", "tag"), CodeConversion, "backend", "emi"},
		{"unavailable", BackendUnavailable("jei", "no runtime"), CodeBackendUnavailable, "backend", "jei"},
		{"unknown", UnknownBackend("xyz"), CodeUnknownBackend, "backend", "xyz"},
		{"persistence", Persistence("/tmp/f.json", fmt.Errorf("boom")), CodePersistence, "path", "/tmp/f.json"},
		{"folder", FolderNotFound("1234"), CodeFolderNotFound, "folder", "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.want, tt.err.Details[tt.key])
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestProtocolViolationKeepsErrorCause(t *testing.T) {
	cause := fmt.Errorf("index out of range")
	err := ProtocolViolation("jei", "render", cause)
	assert.Equal(t, cause, err.Unwrap())

	plain := ProtocolViolation("jei", "render", "string panic")
	assert.Nil(t, plain.Unwrap())
	assert.Contains(t, plain.ToJSON(), "PROTOCOL_VIOLATION")
}
