package imagepkg

import (
	"image"
	"math"
)

// Over draws src over dst in place using the straight-alpha "over"
// operator. Both images must have the same bounds. Pixels where src is
// fully transparent are left untouched.
func Over(dst, src *image.NRGBA) {
	d, s := dst.Pix, src.Pix
	for i := 0; i+3 < len(d) && i+3 < len(s); i += 4 {
		if s[i+3] == 0 {
			continue
		}
		fA := float64(s[i+3]) / 255
		pA := float64(d[i+3]) / 255
		outA := fA + pA*(1-fA)
		if outA > 0 {
			for c := 0; c < 3; c++ {
				v := (float64(s[i+c])*fA + float64(d[i+c])*pA*(1-fA)) / outA
				d[i+c] = clamp8(math.Round(v))
			}
		}
		d[i+3] = clamp8(math.Round(outA * 255))
	}
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
