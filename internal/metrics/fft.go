package metrics

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectrum computes magnitude spectra for fixed-length real frames.
type spectrum struct {
	fft    *fourier.FFT
	coeffs []complex128
}

func newSpectrum(n int) *spectrum {
	return &spectrum{fft: fourier.NewFFT(n), coeffs: make([]complex128, n/2+1)}
}

// magnitudes writes |FFT(frame)| for bins 0..n/2 into out.
func (s *spectrum) magnitudes(frame []float64, out []float64) {
	s.fft.Coefficients(s.coeffs, frame)
	for i, c := range s.coeffs {
		out[i] = cmplx.Abs(c)
	}
}

// hannWindow returns a periodic Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
