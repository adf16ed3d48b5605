package systems

// maxFloat returns the larger of two float32 values.
func maxFloat(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
