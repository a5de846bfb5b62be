package geochip

import (
	"math"

	"github.com/shopspring/decimal"
)

// GeoShift moves every requested window by a fixed ground distance, used to
// correct a constant georegistration offset of an image.
type GeoShift struct {
	XShiftMeters float64
	YShiftMeters float64
}

func (s GeoShift) IsZero() bool {
	return s.XShiftMeters == 0 && s.YShiftMeters == 0
}

// Apply returns window translated by the shift, with its size unchanged.
// The top-left corner goes pixel -> map -> WGS84, is shifted there, and
// comes back the same way. A zero shift returns window as is.
func (s GeoShift) Apply(window Box, tf *AffineTransformer) (ret Box, err error) {
	if s.IsZero() || tf == nil {
		return window, nil
	}
	x, y := tf.gt.Apply(float64(window.ColMin), float64(window.RowMin))
	lon, lat := x, y
	proj := tf.Projector()
	if proj != nil {
		if lon, lat, err = proj.ToWGS84(x, y); err != nil {
			return
		}
	}
	lon, lat = s.shiftLonLat(lon, lat)
	x, y = lon, lat
	if proj != nil {
		if x, y, err = proj.FromWGS84(lon, lat); err != nil {
			return
		}
	}
	col, row := tf.inv.Apply(x, y)
	ret = window.Translate(roundInt(row)-window.RowMin, roundInt(col)-window.ColMin)
	return
}

func (s GeoShift) shiftLonLat(lon, lat float64) (float64, float64) {
	mpd := decimal.NewFromFloat(METERS_PER_DEGREE)
	dLat := decimal.NewFromFloat(s.YShiftMeters).Div(mpd)
	lat2, _ := decimal.NewFromFloat(lat).Add(dLat).Float64()
	// 极点处经度偏移无意义
	cosLat := math.Cos(lat * degToRad)
	if math.Abs(cosLat) < 1e-12 {
		return lon, lat2
	}
	dLon := decimal.NewFromFloat(s.XShiftMeters).Div(mpd.Mul(decimal.NewFromFloat(cosLat)))
	lon2, _ := decimal.NewFromFloat(lon).Add(dLon).Float64()
	return lon2, lat2
}
