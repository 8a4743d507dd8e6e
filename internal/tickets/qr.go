package tickets

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRSize is the rendered QR image size in pixels.
const QRSize = 300

// RenderQRPNG renders the payload as a PNG QR code.
func RenderQRPNG(payload *Payload) ([]byte, error) {
	text, err := payload.Encode()
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pngBytes, err := qr.PNG(QRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR to PNG: %w", err)
	}

	return pngBytes, nil
}

// RenderQRDataURI renders the payload as a data URI usable directly in an
// <img> tag.
func RenderQRDataURI(payload *Payload) (string, error) {
	pngBytes, err := RenderQRPNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes), nil
}
