package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProductName(t *testing.T) {
	cycle := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t,
		"aqm.t12z.dynf006.793.nc",
		ProductName("aqm", cycle, 0, "dyn", 6, "793"),
	)

	assert.Equal(t,
		"aqm.t06z.mem03.phyf000.793.nc",
		ProductName("aqm", cycle.Add(-6*time.Hour), 3, "phy", 0, "793"),
	)

	assert.Equal(t,
		"aqm.t12z.dynf072.793.nc",
		ProductName("aqm", cycle, 0, "dyn", 72, "793"),
	)
}

func TestAliasName(t *testing.T) {
	assert.Equal(t, "aqm.dynf006.793.nc", AliasName("aqm", 0, "dyn", 6, "793"))
	assert.Equal(t, "aqm.mem02.phyf018.793.nc", AliasName("aqm", 2, "phy", 18, "793"))
}
