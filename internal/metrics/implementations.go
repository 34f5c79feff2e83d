// Concrete implementations of the comparison metrics, computed by OpenCV
package metrics

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"image-transformer/internal/algorithms"
)

// MSE implements Mean Squared Error
type MSE struct{}

func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed *image.Gray) (float64, error) {
	var mse float64
	err := withMats(original, processed, func(a, b gocv.Mat) error {
		mse = meanSquaredError(a, b)
		return nil
	})
	return mse, err
}

func (m *MSE) GetName() string {
	return "MSE"
}

func (m *MSE) GetDescription() string {
	return "Mean Squared Error - average squared pixel difference"
}

func (m *MSE) GetRange() (float64, float64) {
	return 0, 255 * 255
}

func (m *MSE) IsHigherBetter() bool {
	return false
}

// PSNR implements Peak Signal-to-Noise Ratio
type PSNR struct{}

func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed *image.Gray) (float64, error) {
	var psnr float64
	err := withMats(original, processed, func(a, b gocv.Mat) error {
		// OpenCV reports identical images as a large finite value
		if meanSquaredError(a, b) == 0 {
			psnr = math.Inf(1)
			return nil
		}
		psnr = gocv.PSNR(a, b)
		return nil
	})
	return psnr, err
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio in dB"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}

// ChangedRatio is the fraction of pixels whose value differs
type ChangedRatio struct{}

func NewChangedRatio() *ChangedRatio {
	return &ChangedRatio{}
}

func (c *ChangedRatio) Calculate(original, processed *image.Gray) (float64, error) {
	var ratio float64
	err := withMats(original, processed, func(a, b gocv.Mat) error {
		diff := gocv.NewMat()
		defer diff.Close()

		if err := gocv.AbsDiff(a, b, &diff); err != nil {
			return &algorithms.Error{Kind: algorithms.KindProcessing, Op: "changed_ratio", Err: err}
		}
		ratio = float64(gocv.CountNonZero(diff)) / float64(a.Total())
		return nil
	})
	return ratio, err
}

func (c *ChangedRatio) GetName() string {
	return "Changed pixels"
}

func (c *ChangedRatio) GetDescription() string {
	return "Fraction of pixels that differ from the original"
}

func (c *ChangedRatio) GetRange() (float64, float64) {
	return 0, 1
}

func (c *ChangedRatio) IsHigherBetter() bool {
	return false
}

func meanSquaredError(a, b gocv.Mat) float64 {
	norm := gocv.NormWithMats(a, b, gocv.NormL2)
	return norm * norm / float64(a.Total())
}

// withMats converts both images to Mats for fn and releases them afterwards.
func withMats(original, processed *image.Gray, fn func(a, b gocv.Mat) error) error {
	if err := checkComparable(original, processed); err != nil {
		return err
	}

	a, err := algorithms.GrayToMat(original)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := algorithms.GrayToMat(processed)
	if err != nil {
		return err
	}
	defer b.Close()

	return fn(a, b)
}
