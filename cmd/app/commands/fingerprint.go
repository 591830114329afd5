package commands

import (
	"fmt"
	"io"
	"os"

	cryptoService "github.com/allisson/imageguard/internal/crypto/service"
)

// RunFingerprint prints the vault fingerprint of the image at imagePath. The
// fingerprint is computed locally and nothing is sent to the server.
func RunFingerprint(imagePath string, writer io.Writer, format string) error {
	image, err := readImage(imagePath)
	if err != nil {
		return err
	}
	fingerprint := cryptoService.Fingerprint(image)

	if format == "json" {
		return outputJSON(map[string]any{
			"image":       imagePath,
			"fingerprint": fingerprint,
		}, writer)
	}

	_, _ = fmt.Fprintln(writer, fingerprint)
	return nil
}

func readImage(imagePath string) ([]byte, error) {
	if imagePath == "" {
		return nil, fmt.Errorf("image path is required")
	}
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return image, nil
}
