package geochip

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// 像素数据类型
type DType string

const (
	DTypeUnknown DType = ""
	DTypeUint8   DType = "uint8"
	DTypeInt8    DType = "int8"
	DTypeUint16  DType = "uint16"
	DTypeInt16   DType = "int16"
	DTypeUint32  DType = "uint32"
	DTypeInt32   DType = "int32"
	DTypeFloat32 DType = "float32"
	DTypeFloat64 DType = "float64"
)

// Chip is a window of raster samples laid out row-major as (row, col, channel).
// Samples are held as float64 whatever DType says; DType records the
// element type the samples represent.
type Chip struct {
	Height   int
	Width    int
	Channels int
	DType    DType
	Data     []float64
}

func NewChip(height, width, channels int, dt DType) *Chip {
	return &Chip{
		Height:   height,
		Width:    width,
		Channels: channels,
		DType:    dt,
		Data:     make([]float64, height*width*channels),
	}
}

func (c *Chip) index(row, col, ch int) int {
	return (row*c.Width+col)*c.Channels + ch
}

func (c *Chip) At(row, col, ch int) float64 {
	return c.Data[c.index(row, col, ch)]
}

func (c *Chip) Set(row, col, ch int, v float64) {
	c.Data[c.index(row, col, ch)] = v
}

// 按通道下标选择/重排通道，返回新Chip
func (c *Chip) SelectChannels(order []int) (*Chip, error) {
	for _, ch := range order {
		if ch < 0 || ch >= c.Channels {
			return nil, fmt.Errorf("%w: channel %d of %d", ErrInvalidChannelOrder, ch, c.Channels)
		}
	}
	out := NewChip(c.Height, c.Width, len(order), c.DType)
	for p := 0; p < c.Height*c.Width; p++ {
		src := c.Data[p*c.Channels : (p+1)*c.Channels]
		dst := out.Data[p*out.Channels : (p+1)*out.Channels]
		for i, ch := range order {
			dst[i] = src[ch]
		}
	}
	return out, nil
}

func (c *Chip) Shape() [3]int {
	return [3]int{c.Height, c.Width, c.Channels}
}

// 像素坐标系下的简单几何及其类别
type Geom struct {
	Geometry   orb.Geometry
	ClassID    int
	Properties geojson.Properties
}
