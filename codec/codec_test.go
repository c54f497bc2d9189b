package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name" yaml:"name"`
	L    int    `json:"l" yaml:"l"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "yaml"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs(t *testing.T) {
	in := []entry{{Name: "collocation_l0.go", L: 0}, {Name: "gaugrid.h", L: -1}}
	for _, c := range []Codec{JSON{}, YAML{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var out []entry
			require.NoError(t, c.Unmarshal(MustMarshal(c, in), &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestJSON_Indented(t *testing.T) {
	b := MustMarshal(nil, entry{Name: "a", L: 1})
	assert.Equal(t, "{\n  \"name\": \"a\",\n  \"l\": 1\n}\n", string(b))
}

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}
