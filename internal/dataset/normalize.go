// Package dataset builds ML-ready datasets from decoded SCMap files.
package dataset

import "github.com/Faultbox/scmap-dataset/pkg/scmap"

// uint16Max is the divisor that maps raw elevation samples onto [0, 1].
const uint16Max = 65535

// Normalize scales raw uint16 elevation samples to float32 values in
// [0, 1]. The output has the same length and row-major layout as the
// input grid; no clamping is needed because the divisor is the maximum
// representable sample value.
func Normalize(hm *scmap.Heightmap) []float32 {
	out := make([]float32, len(hm.Data))
	for i, v := range hm.Data {
		out[i] = float32(v) / uint16Max
	}
	return out
}

// Denormalize converts normalized float32 values back to uint16 samples,
// clamping to [0, 1] to absorb floating point drift. Rounding to nearest
// makes Denormalize(Normalize(x)) exact for every sample value.
func Denormalize(normalized []float32) []uint16 {
	out := make([]uint16, len(normalized))
	for i, v := range normalized {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out[i] = uint16(v*uint16Max + 0.5)
	}
	return out
}
