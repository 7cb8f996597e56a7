package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Generator renders text as a PNG QR code wrapped in a data URL.
type Generator struct {
	Size  int
	Level qrcode.RecoveryLevel
}

func NewGenerator() *Generator {
	return &Generator{Size: defaultSize, Level: qrcode.Medium}
}

func (g *Generator) Generate(text string) (string, error) {
	png, err := qrcode.Encode(text, g.Level, g.Size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
