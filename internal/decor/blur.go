package decor

import "image"

// BlurRGBA returns a Gaussian-blurred copy of src using the engine's kernel
// cache. Channels are blurred in premultiplied space, one plane per channel
// through the same separable pass the shadow uses. The hotbar relies on this
// for its glass backdrop; radius 0 returns an unmodified copy.
func (e *Engine) BlurRGBA(src *image.RGBA, radius int) (*image.RGBA, error) {
	if src == nil || src.Bounds().Dx() == 0 || src.Bounds().Dy() == 0 {
		return nil, ErrEmptyInput
	}
	kernel, err := e.kernels.Get(radius)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	planes := [4]*Mask{}
	for c := range planes {
		planes[c] = NewMask(w, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			a := float32(src.Pix[i+3]) / 255
			planes[0].Cov[y*w+x] = float32(src.Pix[i]) / 255 * a
			planes[1].Cov[y*w+x] = float32(src.Pix[i+1]) / 255 * a
			planes[2].Cov[y*w+x] = float32(src.Pix[i+2]) / 255 * a
			planes[3].Cov[y*w+x] = a
		}
	}

	for c := range planes {
		planes[c] = blurMask(planes[c], kernel)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := out.PixOffset(x, y)
			r, g, bl, a := unpremultiply(
				planes[0].Cov[y*w+x],
				planes[1].Cov[y*w+x],
				planes[2].Cov[y*w+x],
				planes[3].Cov[y*w+x],
			)
			out.Pix[o] = r
			out.Pix[o+1] = g
			out.Pix[o+2] = bl
			out.Pix[o+3] = a
		}
	}
	return out, nil
}
