package geochip

import (
	"math"
)

const degToRad = math.Pi / 180

func roundInt(v float64) int {
	return int(math.Round(v))
}
