package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRecord_CloneIsDeep(t *testing.T) {
	orig := Record{
		"message": "You're not authorized",
		"meta":    map[string]any{"retry": false},
		"tags":    []any{"auth", map[string]any{"level": 1}},
	}

	clone := orig.Clone()
	clone["message"] = "changed"
	clone["meta"].(map[string]any)["retry"] = true
	clone["tags"].([]any)[1].(map[string]any)["level"] = 2

	require.Equal(t, "You're not authorized", orig["message"])
	require.Equal(t, false, orig["meta"].(map[string]any)["retry"])
	require.Equal(t, 1, orig["tags"].([]any)[1].(map[string]any)["level"])
}

func TestRecord_CloneNil(t *testing.T) {
	var r Record
	require.Nil(t, r.Clone())
}

func TestNormalize_ConvertsNestedAnyKeys(t *testing.T) {
	raw := map[any]any{
		"status": 401,
		"nested": map[any]any{"a": 1, 2: "two"},
		"list":   []any{map[any]any{"k": "v"}},
	}

	rec, err := Normalize(raw)

	require.NoError(t, err)
	require.Equal(t, Record{
		"status": 401,
		"nested": map[string]any{"a": 1, "2": "two"},
		"list":   []any{map[string]any{"k": "v"}},
	}, rec)
}

func TestNormalize_JSONNumbers(t *testing.T) {
	got, err := Normalize(map[string]any{
		"id":    json.Number("9007199254740993"),
		"ratio": json.Number("1.5"),
		"exp":   json.Number("1e3"),
		"list":  []any{json.Number("-4")},
	})

	require.NoError(t, err)
	require.Equal(t, Record{
		"id":    9007199254740993,
		"ratio": 1.5,
		"exp":   1000.0,
		"list":  []any{-4},
	}, got)
}

func TestNormalize_RejectsNonMappings(t *testing.T) {
	for name, v := range map[string]any{
		"scalar":   "just a string",
		"number":   42,
		"sequence": []any{"a", "b"},
		"null":     nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(v)
			require.ErrorIs(t, err, ErrNotMapping)
		})
	}
}

func TestNewSet_PreservesOrder(t *testing.T) {
	set, err := NewSet([]Entry{
		{Key: "zeta", Record: Record{"n": 1}},
		{Key: "alpha", Record: Record{"n": 2}},
		{Key: "mid", Record: Record{"n": 3}},
	})

	require.NoError(t, err)
	require.Equal(t, []string{"zeta", "alpha", "mid"}, set.Keys())
	require.Equal(t, 3, set.Len())
	require.True(t, set.Has("alpha"))
	require.False(t, set.Has("missing"))
}

func TestNewSet_DuplicateKey(t *testing.T) {
	_, err := NewSet([]Entry{
		{Key: "a", Record: Record{}},
		{Key: "a", Record: Record{}},
	})

	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Contains(t, err.Error(), "a")
}

func TestNewSet_EmptyKey(t *testing.T) {
	_, err := NewSet([]Entry{{Key: "", Record: Record{}}})
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestNewSet_Empty(t *testing.T) {
	set, err := NewSet(nil)

	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
	require.Empty(t, set.Keys())
	require.Empty(t, set.Entries())
}

func TestNewSet_CopiesInput(t *testing.T) {
	rec := Record{"message": "original"}
	set, err := NewSet([]Entry{{Key: "k", Record: rec}})
	require.NoError(t, err)

	rec["message"] = "mutated"

	got, ok := set.Get("k")
	require.True(t, ok)
	require.Equal(t, "original", got["message"])
}

func TestNilSet(t *testing.T) {
	var set *Set

	require.False(t, set.Has("a"))
	require.Equal(t, 0, set.Len())
	require.Empty(t, set.Keys())
	require.Empty(t, set.Entries())
	_, ok := set.Get("a")
	require.False(t, ok)
}

func TestListing_MarshalJSONKeepsOrder(t *testing.T) {
	l := Listing{
		{Key: "not_found", Record: Record{"message": "Not found"}},
		{Key: "bad_request", Record: Record{"message": "Bad request"}},
	}

	data, err := json.Marshal(l)

	require.NoError(t, err)
	require.Equal(t, `{"not_found":{"message":"Not found"},"bad_request":{"message":"Bad request"}}`, string(data))
}

func TestListing_MarshalJSONEmpty(t *testing.T) {
	data, err := json.Marshal(Listing{})
	require.NoError(t, err)
	require.Equal(t, `{}`, string(data))
}

func TestListing_MarshalYAMLKeepsOrder(t *testing.T) {
	l := Listing{
		{Key: "zeta", Record: Record{"message": "z"}},
		{Key: "alpha", Record: Record{"message": "a"}},
	}

	data, err := yaml.Marshal(l)

	require.NoError(t, err)
	require.Equal(t, "zeta:\n    message: z\nalpha:\n    message: a\n", string(data))
}

func TestListing_KeysAndMap(t *testing.T) {
	l := Listing{
		{Key: "b", Record: Record{"x": 1}},
		{Key: "a", Record: Record{"x": 2}},
	}

	require.Equal(t, []string{"b", "a"}, l.Keys())
	require.Equal(t, map[string]Record{"b": {"x": 1}, "a": {"x": 2}}, l.Map())
}
