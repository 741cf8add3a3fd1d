package worldmap

import "math"

// Reproject applies a Gall-Peters equal-area reprojection to src (a row-major
// srcH×srcW raster) and resamples the result to dstH×dstW, north row first.
//
// Generate synthesizes its rasters directly at the target resolution and has
// no separate low-resolution source asset to reproject. GenerateFromRasters is
// the caller that matters: it loads elevation/rainfall/lon/lat from disk at
// whatever resolution they were captured at and uses Reproject to bring all
// four to cfg.Width×cfg.Height (§4.1) before deriving a Map from them.
func Reproject(src []float64, srcW, srcH, dstW, dstH int) []float64 {
	// Step 1: for each source row at latitude lat = pi*(y/srcH - 0.5), the
	// Gall-Peters destination row is floor((sin(lat)+1)*srcH/2). Multiple
	// source rows can collide on the same destination row, and some
	// destination rows can be left empty; both are handled below.
	projected := make([][]float64, srcH)
	filled := make([]bool, srcH)
	for y := 0; y < srcH; y++ {
		lat := math.Pi * (float64(y)/float64(srcH) - 0.5)
		dy := int(math.Floor((math.Sin(lat) + 1) * float64(srcH) / 2))
		if dy < 0 {
			dy = 0
		}
		if dy >= srcH {
			dy = srcH - 1
		}
		projected[dy] = src[y*srcW : (y+1)*srcW]
		filled[dy] = true
	}

	// Step 2: fill empty destination rows by linear interpolation between the
	// nearest filled rows above and below.
	for y := 0; y < srcH; y++ {
		if filled[y] {
			continue
		}
		above := -1
		for a := y - 1; a >= 0; a-- {
			if filled[a] {
				above = a
				break
			}
		}
		below := -1
		for b := y + 1; b < srcH; b++ {
			if filled[b] {
				below = b
				break
			}
		}
		switch {
		case above >= 0 && below >= 0:
			row := make([]float64, srcW)
			t := float64(y-above) / float64(below-above)
			for x := 0; x < srcW; x++ {
				row[x] = projected[above][x]*(1-t) + projected[below][x]*t
			}
			projected[y] = row
		case above >= 0:
			projected[y] = projected[above]
		case below >= 0:
			projected[y] = projected[below]
		default:
			projected[y] = make([]float64, srcW)
		}
	}

	// Step 3: bilinear resample the srcW×srcH projected raster to dstW×dstH.
	out := make([]float64, dstW*dstH)
	for y := 0; y < dstH; y++ {
		fy := float64(y) / float64(dstH-1) * float64(srcH-1)
		if dstH == 1 {
			fy = 0
		}
		y0 := int(math.Floor(fy))
		y1 := min(y0+1, srcH-1)
		ty := fy - float64(y0)
		for x := 0; x < dstW; x++ {
			fx := float64(x) / float64(dstW-1) * float64(srcW-1)
			if dstW == 1 {
				fx = 0
			}
			x0 := int(math.Floor(fx))
			x1 := min(x0+1, srcW-1)
			tx := fx - float64(x0)

			v00 := projected[y0][x0]
			v01 := projected[y0][x1]
			v10 := projected[y1][x0]
			v11 := projected[y1][x1]
			top := v00*(1-tx) + v01*tx
			bot := v10*(1-tx) + v11*tx
			out[y*dstW+x] = top*(1-ty) + bot*ty
		}
	}

	// Step 4: flip vertically so north is up (the projection above walked
	// source rows from the south pole at y=0).
	flipped := make([]float64, dstW*dstH)
	for y := 0; y < dstH; y++ {
		copy(flipped[y*dstW:(y+1)*dstW], out[(dstH-1-y)*dstW:(dstH-y)*dstW])
	}
	return flipped
}
