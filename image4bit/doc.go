// Package image4bit provides the 4-bit grayscale image format of the SH1122 display controller.
//
// Memory layout of a 4-pixel row:
//
//	Pixels: 0  1  2  3
//	Values: 5  10 3  12
//	Bytes:  0x5A     0x3C
//
// HorizontalNibble implements draw.Image so it can be used with image/draw and
// golang.org/x/image:
//
//	img := image4bit.NewHorizontalNibble(image.Rect(0, 0, 256, 64))
//	img.SetGray4(10, 20, image4bit.Gray4{Y: 8})
//	draw.Draw(img, img.Bounds(), image.NewUniform(image4bit.White), image.Point{}, draw.Src)
package image4bit
