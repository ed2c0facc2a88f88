package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGemType_Price(t *testing.T) {
	assert.Equal(t, int64(100), GemRuby.Price())
	assert.Equal(t, int64(10000), GemMagic.Price())
	assert.Equal(t, int64(0), GemType("obsidian").Price())
}

func TestGemTypesByPrice_Ascending(t *testing.T) {
	types := GemTypesByPrice()

	assert.Len(t, types, 7)
	for i := 1; i < len(types); i++ {
		assert.LessOrEqual(t, types[i-1].Price(), types[i].Price())
	}
	assert.Equal(t, GemRuby, types[0])
	assert.Equal(t, GemMagic, types[len(types)-1])
}

func TestGemAmount_Value(t *testing.T) {
	gems := GemAmount{GemRuby: 3, GemTopaz: 2}
	assert.Equal(t, int64(1300), gems.Value())
	assert.Equal(t, int64(0), GemAmount{}.Value())
}

func TestGemAmount_Validate(t *testing.T) {
	assert.True(t, GemAmount{GemRuby: 1}.Validate())
	assert.False(t, GemAmount{}.Validate())
	assert.False(t, GemAmount{GemRuby: 0}.Validate())
	assert.False(t, GemAmount{GemRuby: -2}.Validate())
	assert.False(t, GemAmount{GemType("obsidian"): 1}.Validate())
}

func TestGemAmount_Clone(t *testing.T) {
	original := GemAmount{GemRuby: 5}
	clone := original.Clone()
	clone[GemRuby] = 9

	assert.Equal(t, int64(5), original[GemRuby])
}

func TestGemHolding_Available(t *testing.T) {
	holding := &GemHolding{Quantity: 10, FrozenQuantity: 4}
	assert.Equal(t, int64(6), holding.Available())
}
