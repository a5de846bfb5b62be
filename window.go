package geochip

// LoadWindow reads window from ds for the given 0-based bands into an
// (rows, cols, channels) chip.
//
// With boundless set the window may exceed the raster; pixels outside it are
// zero. Otherwise the window is clipped to the raster first. Pixels equal to
// a band's non-zero nodata value are rewritten to zero.
func LoadWindow(ds Dataset, window Box, bands []int, boundless bool) (chip *Chip, err error) {
	extent := Box{RowMax: ds.Height(), ColMax: ds.Width()}
	if !boundless {
		window, _ = window.Intersection(extent)
		if window.Empty() {
			window = Box{}
		}
	}
	dtype := DTypeUnknown
	if len(bands) > 0 {
		dtype = ds.DataType(bands[0])
	}
	chip = NewChip(window.Height(), window.Width(), len(bands), dtype)
	inter, ok := window.Intersection(extent)
	if !ok {
		return
	}
	var (
		w, h   = inter.Width(), inter.Height()
		dRow   = inter.RowMin - window.RowMin
		dCol   = inter.ColMin - window.ColMin
		buf    = make([]float64, w*h)
		nodata float64
		masked bool
	)
	for ci, band := range bands {
		if err = ds.ReadBand(band, inter.ColMin, inter.RowMin, w, h, buf); err != nil {
			chip = nil
			return
		}
		nodata, masked = ds.NoData(band)
		masked = masked && nodata != 0
		for r := 0; r < h; r++ {
			for c := 0; c < w; c++ {
				v := buf[r*w+c]
				if masked && v == nodata {
					v = 0
				}
				chip.Set(dRow+r, dCol+c, ci, v)
			}
		}
	}
	return
}
