package handler

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gofiber/fiber/v2"

	"github.com/KP-101219/Quickroll-V2/internal/domain"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

// frameFromRequest extracts the frame image from a request: the "image"
// multipart field when present, otherwise the raw body.
func frameFromRequest(c *fiber.Ctx) (image.Image, error) {
	data, err := imageBytes(c)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	return img, nil
}

func imageBytes(c *fiber.Ctx) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageSize {
			return nil, domain.ErrValidationFailed.WithError(
				fiber.NewError(fiber.StatusRequestEntityTooLarge, "image too large"))
		}

		f, err := file.Open()
		if err != nil {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
		defer f.Close()

		buf := bytes.NewBuffer(make([]byte, 0, file.Size))
		if _, err := buf.ReadFrom(f); err != nil {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
		return buf.Bytes(), nil
	}

	body := c.Body()
	if len(body) == 0 {
		return nil, domain.ErrValidationFailed.WithError(
			fiber.NewError(fiber.StatusBadRequest, "missing image"))
	}
	if len(body) > maxImageSize {
		return nil, domain.ErrValidationFailed.WithError(
			fiber.NewError(fiber.StatusRequestEntityTooLarge, "image too large"))
	}
	return body, nil
}
