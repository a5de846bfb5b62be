package geochip

import (
	"fmt"
	"math"
)

// RasterTransformer post-processes a chip after channel reordering.
// channelOrder maps chip channels back to raw channel indexes.
type RasterTransformer interface {
	Transform(chip *Chip, channelOrder []int) (*Chip, error)
}

type NoopTransformer struct{}

func (NoopTransformer) Transform(chip *Chip, _ []int) (*Chip, error) {
	return chip, nil
}

const statsNumStd = 3

// StatsTransformer maps each channel from [mean-3σ, mean+3σ] onto uint8.
// Means and Stds are indexed by raw channel.
type StatsTransformer struct {
	Means []float64
	Stds  []float64
}

func (s StatsTransformer) Transform(chip *Chip, channelOrder []int) (out *Chip, err error) {
	if len(s.Means) == 0 {
		return chip, nil
	}
	if channelOrder == nil {
		channelOrder = make([]int, chip.Channels)
		for i := range channelOrder {
			channelOrder[i] = i
		}
	}
	if len(channelOrder) != chip.Channels {
		err = fmt.Errorf("%w: %d channels, order %v", ErrInvalidChannelOrder, chip.Channels, channelOrder)
		return
	}
	lower := make([]float64, chip.Channels)
	span := make([]float64, chip.Channels)
	for i, ch := range channelOrder {
		if ch < 0 || ch >= len(s.Means) || ch >= len(s.Stds) {
			err = fmt.Errorf("%w: no stats for channel %d", ErrInvalidChannelOrder, ch)
			return
		}
		lower[i] = s.Means[ch] - statsNumStd*s.Stds[ch]
		span[i] = 2 * statsNumStd * s.Stds[ch]
	}
	out = NewChip(chip.Height, chip.Width, chip.Channels, DTypeUint8)
	for i, v := range chip.Data {
		ch := i % chip.Channels
		var norm float64
		if span[ch] > 0 {
			norm = (v - lower[ch]) / span[ch]
		}
		norm = math.Min(math.Max(norm, 0), 1)
		out.Data[i] = math.Trunc(norm * math.MaxUint8)
	}
	return
}
