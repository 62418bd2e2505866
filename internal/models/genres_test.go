package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenresStorage(t *testing.T) {
	v, err := Genres(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = Genres{"R&B", "Hip-Hop"}.Value()
	require.NoError(t, err)

	var g Genres
	require.NoError(t, g.Scan(v))
	assert.Equal(t, Genres{"R&B", "Hip-Hop"}, g)
	require.NoError(t, g.Scan([]byte(`["Jazz"]`)))
	assert.Equal(t, Genres{"Jazz"}, g)
	require.NoError(t, g.Scan(nil))
	assert.Empty(t, g)
	assert.Error(t, g.Scan(42))
	assert.Error(t, g.Scan("Jazz"))
}

func TestEnumerations(t *testing.T) {
	assert.True(t, ValidGenre("Rock n Roll"))
	assert.False(t, ValidGenre("rock n roll"))
	assert.True(t, ValidState("NY"))
	assert.False(t, ValidState("ny"))
	assert.True(t, Genres{"Jazz", "Folk"}.Contains("Folk"))
	assert.False(t, Genres{}.Contains("Folk"))
}
