package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/keyreg/internal/domain/record"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/transform"
)

func TestMatch_ProducedValue(t *testing.T) {
	reg := newErrors(t, transform.Strip("status"))

	ok, err := reg.Match("not_authorized", map[string]any{
		"message":     "You're not authorized",
		"explanation": "Log in and try again.",
	})

	require.NoError(t, err)
	require.True(t, ok)
}

func TestMatch_ExtraOrMissingField(t *testing.T) {
	reg := newErrors(t, transform.Strip("status"))

	extra, err := reg.Match("not_authorized", map[string]any{
		"message":     "You're not authorized",
		"explanation": "Log in and try again.",
		"status":      401,
	})
	require.NoError(t, err)
	require.False(t, extra)

	missing, err := reg.Match("not_authorized", map[string]any{
		"message": "You're not authorized",
	})
	require.NoError(t, err)
	require.False(t, missing)
}

func TestMatch_JSONBody(t *testing.T) {
	reg := newErrors(t, nil)
	body := []byte(`{"status": 404, "message": "Not found"}`)

	ok, err := reg.Match("not_found", body)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = reg.Match("not_found", json.RawMessage(`{"status": 404.0, "message": "Not found"}`))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMatch_LargeIntegersExact(t *testing.T) {
	reg, err := New(Config{
		Name:   "ids",
		Source: source.NewStatic(record.Entry{Key: "k", Record: record.Record{"id": int64(9007199254740993)}}),
	})
	require.NoError(t, err)
	defer reg.Close()

	ok, err := reg.Match("k", map[string]any{"id": int64(9007199254740992)})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = reg.Match("k", []byte(`{"id": 9007199254740993}`))
	require.NoError(t, err)
	require.True(t, ok)

	diff, err := reg.Diff("k", map[string]any{"id": int64(9007199254740992)})
	require.NoError(t, err)
	require.Contains(t, diff, "9007199254740992")
}

func TestMatch_TrailingData(t *testing.T) {
	reg := newErrors(t, nil)

	_, err := reg.Match("not_found", []byte(`{"status": 404, "message": "Not found"} {}`))

	require.ErrorContains(t, err, "trailing data")
}

func TestMatch_StructValue(t *testing.T) {
	reg := newErrors(t, nil)
	type apiError struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}

	ok, err := reg.Match("bad_request", apiError{Status: 400, Message: "Bad request"})

	require.NoError(t, err)
	require.True(t, ok)
}

func TestMatch_UnknownKey(t *testing.T) {
	reg := newErrors(t, nil)

	ok, err := reg.Match("nonexistent", map[string]any{})

	require.False(t, ok)
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestMatch_InvalidJSONBody(t *testing.T) {
	reg := newErrors(t, nil)

	_, err := reg.Match("not_found", []byte(`{not json`))

	require.Error(t, err)
	require.Contains(t, err.Error(), "compared value")
}

func TestDiff(t *testing.T) {
	reg := newErrors(t, transform.Strip("status"))

	same, err := reg.Diff("not_found", map[string]any{"message": "Not found"})
	require.NoError(t, err)
	require.Empty(t, same)

	diff, err := reg.Diff("not_found", map[string]any{"message": "Not Found"})
	require.NoError(t, err)
	require.Contains(t, diff, "Not found")
	require.Contains(t, diff, "Not Found")
}
