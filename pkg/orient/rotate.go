package orient

import (
	"math"

	"blochfold/internal/models"
)

// rotateVolume rotates the field in the plane spanned by axes ax0 and ax1 by
// the given angle (radians), leaving the third axis untouched. The output
// grid grows to the bounding box of the rotated input so no data is cropped;
// samples falling outside the input grid read as zero. Values are resampled
// with bilinear interpolation about the grid centers.
//
// A positive angle moves the ax0 direction towards the ax1 direction, so
// rotating by the segment's reorientation angle maps the segment direction
// onto axis 0.
func rotateVolume(f *models.Field, angle float64, ax0, ax1 int) *models.Field {
	axFixed := 3 - ax0 - ax1

	na := f.Dim(ax0)
	nb := f.Dim(ax1)
	nf := f.Dim(axFixed)

	c, s := math.Cos(angle), math.Sin(angle)
	ac, as := math.Abs(c), math.Abs(s)

	// Bounding box of the rotated grid
	outA := int(math.Round(float64(na)*ac + float64(nb)*as))
	outB := int(math.Round(float64(na)*as + float64(nb)*ac))

	var dims [3]int
	dims[ax0] = outA
	dims[ax1] = outB
	dims[axFixed] = nf
	out := models.NewField(dims[0], dims[1], dims[2], f.Spacing)

	inCA := 0.5 * float64(na-1)
	inCB := 0.5 * float64(nb-1)
	outCA := 0.5 * float64(outA-1)
	outCB := 0.5 * float64(outB-1)

	var idxIn, idxOut [3]int
	for fi := 0; fi < nf; fi++ {
		idxIn[axFixed] = fi
		idxOut[axFixed] = fi
		for ia := 0; ia < outA; ia++ {
			idxOut[ax0] = ia
			oa := float64(ia) - outCA
			for ib := 0; ib < outB; ib++ {
				idxOut[ax1] = ib
				ob := float64(ib) - outCB

				// Inverse mapping of the output sample into the input grid
				xa := c*oa + s*ob + inCA
				xb := -s*oa + c*ob + inCB

				fa := math.Floor(xa)
				fb := math.Floor(xb)
				wa := xa - fa
				wb := xb - fb
				a0 := int(fa)
				b0 := int(fb)

				v := 0.0
				for da := 0; da <= 1; da++ {
					wA := 1 - wa
					if da == 1 {
						wA = wa
					}
					for db := 0; db <= 1; db++ {
						wB := 1 - wb
						if db == 1 {
							wB = wb
						}
						ca := a0 + da
						cb := b0 + db
						if ca < 0 || ca >= na || cb < 0 || cb >= nb {
							continue
						}
						idxIn[ax0] = ca
						idxIn[ax1] = cb
						v += wA * wB * f.At(idxIn[0], idxIn[1], idxIn[2])
					}
				}

				out.Set(idxOut[0], idxOut[1], idxOut[2], v)
			}
		}
	}

	return out
}
