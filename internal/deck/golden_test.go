package deck

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// The golden file pins the deck grammar byte for byte; clover_leaf parses
// it positionally, so any drift here is a compatibility break.
func TestRenderGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "default_deck", []byte(DefaultConfig().Render()))
}
