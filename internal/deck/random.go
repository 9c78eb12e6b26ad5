package deck

import (
	"math"
	"math/rand"
)

// Randomized field ranges, inclusive. Values are rounded to one decimal
// place so the rendered deck stays within the precision the original
// workflow produced.
const (
	Density1Min = 0.1
	Density1Max = 0.5
	Density2Min = 0.8
	Density2Max = 1.5
	Energy1Min  = 0.8
	Energy1Max  = 1.2
	Energy2Min  = 2.0
	Energy2Max  = 3.0
	Region2XMax = 6.0
	Region2XMin = 4.0
	Region2YMax = 2.5
	Region2YMin = 1.5
)

// Randomize draws fresh values for the randomized deck fields from rng.
// The same seeded source always reproduces the same sequence of decks.
func (c *RunConfig) Randomize(rng *rand.Rand) {
	c.State1.Density = draw(rng, Density1Min, Density1Max)
	c.State1.Energy = draw(rng, Energy1Min, Energy1Max)
	c.State2.Density = draw(rng, Density2Min, Density2Max)
	c.State2.Energy = draw(rng, Energy2Min, Energy2Max)
	c.State2Region.Xmax = draw(rng, Region2XMin, Region2XMax)
	c.State2Region.Ymax = draw(rng, Region2YMin, Region2YMax)
}

func draw(rng *rand.Rand, min, max float64) float64 {
	return math.Round((min+rng.Float64()*(max-min))*10) / 10
}
