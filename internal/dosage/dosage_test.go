package dosage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolume(t *testing.T) {
	assert.Equal(t, 0.25, Volume(2.5, 10))
	assert.Equal(t, 0.5, Volume(10, 20))
	assert.Equal(t, 0.0, Volume(0, 10))
}

func TestSyringeUnits(t *testing.T) {
	assert.Equal(t, 25.0, SyringeUnits(Volume(2.5, 10)))
	assert.Equal(t, 50.0, SyringeUnits(0.5))
	assert.Equal(t, 100.0, SyringeUnits(1))
}
