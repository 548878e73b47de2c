package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeGrayscale    = 3  // Uncompressed grayscale
	TGATypeRLE          = 10 // RLE compressed true-color
	TGATypeRLEGrayscale = 11 // RLE compressed grayscale
)

const (
	tgaHeaderSize            = 18
	tgaDescriptorTopToBottom = 0x20
)

// TGA decoding errors.
var (
	ErrTGATruncated   = errors.New("TGA data truncated")
	ErrTGAUnsupported = errors.New("unsupported TGA")
)

// tgaHeader is the fixed 18-byte TGA file header.
type tgaHeader struct {
	idLength     int
	colorMapType byte
	imageType    byte
	width        int
	height       int
	bpp          int
	topToBottom  bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, ErrTGATruncated
	}
	return tgaHeader{
		idLength:     int(data[0]),
		colorMapType: data[1],
		imageType:    data[2],
		width:        int(data[12]) | int(data[13])<<8,
		height:       int(data[14]) | int(data[15])<<8,
		bpp:          int(data[16]),
		topToBottom:  data[17]&tgaDescriptorTopToBottom != 0,
	}, nil
}

func (h tgaHeader) grayscale() bool {
	return h.imageType == TGATypeGrayscale || h.imageType == TGATypeRLEGrayscale
}

func (h tgaHeader) rle() bool {
	return h.imageType == TGATypeRLE || h.imageType == TGATypeRLEGrayscale
}

func (h tgaHeader) validate() error {
	if h.colorMapType != 0 {
		return fmt.Errorf("%w: color-mapped image", ErrTGAUnsupported)
	}
	switch h.imageType {
	case TGATypeUncompressed, TGATypeRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return fmt.Errorf("%w: %d-bit true-color", ErrTGAUnsupported, h.bpp)
		}
	case TGATypeGrayscale, TGATypeRLEGrayscale:
		if h.bpp != 8 {
			return fmt.Errorf("%w: %d-bit grayscale", ErrTGAUnsupported, h.bpp)
		}
	default:
		return fmt.Errorf("%w: image type %d", ErrTGAUnsupported, h.imageType)
	}
	return nil
}

// DecodeTGA decodes a TGA image. Supports uncompressed and RLE true-color
// (24/32-bit BGR(A)) and grayscale (8-bit) images. The result is stored
// top row first regardless of the file's row order.
func DecodeTGA(data []byte) (image.Image, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	d := &tgaDecoder{
		header: h,
		src:    data[offset:],
		img:    image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		stride: h.bpp / 8,
	}
	if h.rle() {
		err = d.decodeRLE()
	} else {
		err = d.decodeRaw()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	header tgaHeader
	src    []byte
	pos    int
	img    *image.RGBA
	stride int
	next   int // next pixel index in file order
}

// readPixel reads one pixel from the source stream.
func (d *tgaDecoder) readPixel() (color.RGBA, error) {
	if d.pos+d.stride > len(d.src) {
		return color.RGBA{}, ErrTGATruncated
	}
	p := d.src[d.pos : d.pos+d.stride]
	d.pos += d.stride

	if d.header.grayscale() {
		return color.RGBA{R: p[0], G: p[0], B: p[0], A: 255}, nil
	}
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.stride == 4 {
		c.A = p[3]
	}
	return c, nil
}

// put stores c at the next pixel position, mapping file rows to image rows.
func (d *tgaDecoder) put(c color.RGBA) {
	w, h := d.header.width, d.header.height
	x, y := d.next%w, d.next/w
	if !d.header.topToBottom {
		y = h - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.next++
}

func (d *tgaDecoder) decodeRaw() error {
	total := d.header.width * d.header.height
	for d.next < total {
		c, err := d.readPixel()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

// decodeRLE handles run-length packets: high bit set repeats one pixel
// (count+1) times, clear copies (count+1) literal pixels.
func (d *tgaDecoder) decodeRLE() error {
	total := d.header.width * d.header.height
	for d.next < total {
		if d.pos >= len(d.src) {
			return ErrTGATruncated
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, err := d.readPixel()
			if err != nil {
				return err
			}
			for i := 0; i < count && d.next < total; i++ {
				d.put(c)
			}
			continue
		}

		for i := 0; i < count && d.next < total; i++ {
			c, err := d.readPixel()
			if err != nil {
				return err
			}
			d.put(c)
		}
	}
	return nil
}
