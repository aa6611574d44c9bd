package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_GetString(t *testing.T) {
	data, err := Parse([]byte(`{"success":true,"data":{"token":"abc.def"}}`))
	require.NoError(t, err)

	token, err := MustCompile("$.data.token").GetString(data)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)
}

func TestPath_GetString_Missing(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no data", `{"success":false}`},
		{"null token", `{"data":{"token":null}}`},
		{"empty token", `{"data":{"token":""}}`},
		{"object token", `{"data":{"token":{"a":1}}}`},
	}
	p := MustCompile("$.data.token")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Parse([]byte(tt.body))
			require.NoError(t, err)
			_, err = p.GetString(data)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)

	_, err = Parse([]byte("<html>"))
	assert.Error(t, err)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile("$.data[")
	assert.Error(t, err)
}

func TestFirstPresent(t *testing.T) {
	tests := []struct {
		name   string
		obj    map[string]any
		want   string
		wantOK bool
	}{
		{"id wins", map[string]any{"id": "m-1", "merchantId": "m-2"}, "m-1", true},
		{"null id falls back", map[string]any{"id": nil, "merchantId": "m-2"}, "m-2", true},
		{"only merchantId", map[string]any{"merchantId": "m-3"}, "m-3", true},
		{"numeric id", map[string]any{"id": float64(42)}, "42", true},
		{"absent", map[string]any{"name": "x"}, "", false},
		{"all null", map[string]any{"id": nil, "merchantId": nil}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstPresent(tt.obj, "id", "merchantId")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsObject(t *testing.T) {
	_, err := AsObject([]any{1})
	assert.ErrorIs(t, err, ErrNotObject)

	obj, err := AsObject(map[string]any{"id": "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", obj["id"])
}
