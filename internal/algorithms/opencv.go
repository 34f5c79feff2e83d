// OpenCV backend: affine warps and resizes through gocv
package algorithms

import (
	"errors"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// OpenCVEngine runs every transform through OpenCV with bilinear
// interpolation and a constant zero border.
type OpenCVEngine struct{}

func NewOpenCVEngine() *OpenCVEngine {
	return &OpenCVEngine{}
}

func (e *OpenCVEngine) Name() string {
	return BackendOpenCV
}

func (e *OpenCVEngine) Rotate(src *image.Gray, angleDegrees float64) (*image.Gray, error) {
	b := src.Bounds()
	m := RotationMatrix(float64(b.Dx())/2, float64(b.Dy())/2, angleDegrees, 1.0)
	return e.warp("rotate", src, m)
}

func (e *OpenCVEngine) Translate(src *image.Gray, dx, dy int) (*image.Gray, error) {
	return e.warp("translate", src, TranslationMatrix(float64(dx), float64(dy)))
}

func (e *OpenCVEngine) Scale(src *image.Gray, fx, fy float64) (*image.Gray, error) {
	b := src.Bounds()
	if _, err := ScaledSize(b.Dx(), b.Dy(), fx, fy); err != nil {
		return nil, err
	}

	mat, err := grayToMat("scale", src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return resizeMat(mat, fx, fy)
}

func resizeMat(mat gocv.Mat, fx, fy float64) (*image.Gray, error) {
	dst := gocv.NewMat()
	defer dst.Close()

	// Size is derived from fx, fy exactly like cv2.resize(img, None, fx=, fy=)
	if err := gocv.Resize(mat, &dst, image.Point{}, fx, fy, gocv.InterpolationLinear); err != nil {
		return nil, processingError("scale", err)
	}
	return matToGray("scale", dst)
}

func (e *OpenCVEngine) Flip(src *image.Gray, axis Axis) (*image.Gray, error) {
	var code int
	switch axis {
	case AxisHorizontal:
		code = 0
	case AxisVertical:
		code = 1
	default:
		return nil, InvalidParameter("flip", "unknown axis %d", int(axis))
	}

	mat, err := grayToMat("flip", src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	if err := gocv.Flip(mat, &dst, code); err != nil {
		return nil, processingError("flip", err)
	}
	return matToGray("flip", dst)
}

// warp applies m onto a canvas the size of src.
func (e *OpenCVEngine) warp(op string, src *image.Gray, m Affine) (*image.Gray, error) {
	mat, err := grayToMat(op, src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return warpMat(op, mat, m)
}

func warpMat(op string, mat gocv.Mat, m Affine) (*image.Gray, error) {
	affine := affineToMat(m)
	defer affine.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	size := image.Pt(mat.Cols(), mat.Rows())
	err := gocv.WarpAffineWithParams(mat, &dst, affine, size,
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{})
	if err != nil {
		return nil, processingError(op, err)
	}

	return matToGray(op, dst)
}

func affineToMat(m Affine) gocv.Mat {
	mat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	for r, row := range m.Rows() {
		for c, v := range row {
			mat.SetDoubleAt(r, c, v)
		}
	}
	return mat
}

func processingError(op string, err error) error {
	return &Error{Kind: KindProcessing, Op: op, Err: err}
}

// GrayToMat converts img to a single channel 8-bit Mat. The caller closes it.
// The Mat may share Pix with img; OpenCV only reads from it.
func GrayToMat(img *image.Gray) (gocv.Mat, error) {
	return grayToMat("convert", img)
}

func grayToMat(op string, img *image.Gray) (gocv.Mat, error) {
	mat, err := gocv.ImageGrayToMatGray(Normalize(img))
	if err != nil {
		return gocv.NewMat(), processingError(op, err)
	}
	return mat, nil
}

func matToGray(op string, mat gocv.Mat) (*image.Gray, error) {
	if mat.Empty() {
		return nil, processingError(op, errors.New("opencv returned an empty image"))
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, processingError(op, err)
	}
	// ToImage allocates, so the result does not alias OpenCV memory.
	return ToGray(img), nil
}
