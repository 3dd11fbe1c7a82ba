package utils

// Square returns n*n.
func Square(n float64) float64 {
	return n * n
}
