package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%%", ContainsPattern(""))
	assert.Equal(t, "%music%", ContainsPattern("MuSiC"))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%a\_b%`, ContainsPattern("a_b"))
	assert.Equal(t, `%c:\\d%`, ContainsPattern(`C:\D`))
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, FoldName("ÉCOLE"), FoldName("école"))
	assert.Equal(t, "the musical hop", FoldName("The Musical Hop"))
}

func TestUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 5, 1, 22, 30, 15, 999, loc)
	out := UTC(in)
	assert.Equal(t, time.UTC, out.Location())
	assert.Equal(t, time.Date(2024, 5, 1, 20, 30, 15, 0, time.UTC), out)
}
