package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefault(t *testing.T) {
	p := MustDefault()
	assert.Equal(t, "plasma", p.Name)
	assert.Len(t, p.Colors, 17)
	assert.Equal(t, RGB{13, 8, 135}, p.Lookup(0))
	assert.Equal(t, RGB{240, 249, 33}, p.Lookup(1))
}

func TestReadGPL(t *testing.T) {
	src := "GIMP Palette\nName: mono\nColumns: 2\n# comment\n0 0 0 black\n255 255 255\n300 0 0 out of range\n"
	p, err := ReadGPL(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
	assert.Equal(t, RGB{127, 127, 127}, p.Lookup(0.5))
}

func TestReadGPLEmpty(t *testing.T) {
	_, err := ReadGPL(strings.NewReader("GIMP Palette\nName: none\n"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	p, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPalette, p.Name)

	_, err = Resolve("nope")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "two.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\nName: two\n1 2 3\n4 5 6\n"), 0o644))
	p, err = Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "two", p.Name)
}

func TestThemeColors(t *testing.T) {
	th := New(MustDefault())
	assert.Equal(t, "#0d0887", string(th.BG()))
	assert.Equal(t, "#f0f921", string(th.Success()))
}
