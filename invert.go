package pdfinvert

// Invert replaces every red, green and blue value v of img with 255-v, in place,
// and returns img. Alpha is left alone. Inverting twice restores the original pixels.
// Released images are returned unchanged.
func Invert(img *PageImage) *PageImage {
	if img == nil || img.rgba == nil {
		return img
	}
	invertPix(img.rgba.Pix, img.rgba.Stride, img.width*4, img.height)
	return img
}

// invertPix walks rows separately since Stride may exceed the visible row width.
func invertPix(pix []uint8, stride, rowBytes, rows int) {
	for y := range rows {
		row := pix[y*stride : y*stride+rowBytes]
		for i := 0; i < len(row); i += 4 {
			row[i] = 255 - row[i]
			row[i+1] = 255 - row[i+1]
			row[i+2] = 255 - row[i+2]
		}
	}
}
