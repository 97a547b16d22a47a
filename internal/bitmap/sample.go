package bitmap

// CalculateSampleSize returns the largest power of two s such that the image
// divided by s is still at least as large as the target in both dimensions.
// It returns 1 when the image is not larger than the target in either
// dimension. Non-positive targets are treated as 1.
func CalculateSampleSize(width, height, targetWidth, targetHeight int) int {
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	sample := 1
	for width/(sample*2) >= targetWidth && height/(sample*2) >= targetHeight {
		sample *= 2
	}
	return sample
}

// sampledDimension is the size of one axis after subsampling by s.
func sampledDimension(size, s int) int {
	if s < 1 {
		s = 1
	}
	if d := size / s; d > 0 {
		return d
	}
	return 1
}
