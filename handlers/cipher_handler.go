// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"affine-cipher-backend/config"
	"affine-cipher-backend/crypto"
	"affine-cipher-backend/models"
	"affine-cipher-backend/textio"

	"github.com/gin-gonic/gin"
)

const sanitizeWarning = "Illegal characters detected, cleaning and proceeding"

type CipherHandler struct {
	defaults       config.CipherConfig
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewCipherHandler(defaults config.CipherConfig, maxUploadBytes int64, logger *slog.Logger) *CipherHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CipherHandler{
		defaults:       defaults,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (h *CipherHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Block Affine cipher API is running",
		"version": "1.0.0",
	})
}

// InspectKey reports the modulus for the requested block shape and whether
// the multiplier is invertible under it.
func (h *CipherHandler) InspectKey(c *gin.Context) {
	var req models.KeyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cfg := h.resolve(*req.Multiplier, 0, req.BlockSize, req.DigitWidth)
	resp := models.KeyResponse{
		Success:    true,
		BlockSize:  cfg.BlockSize,
		DigitWidth: cfg.DigitWidth,
	}

	cipher, err := crypto.NewBlockAffine(cfg.Crypto())
	var cfgErr *crypto.ConfigurationError
	switch {
	case err == nil:
		resp.Coprime = true
		resp.Modulus = cipher.Modulus().String()
		resp.Inverse = cipher.Inverse().String()
		resp.Message = "Multiplier is coprime with the modulus"
	case errors.As(err, &cfgErr) && cfgErr.Modulus != nil:
		resp.Modulus = cfgErr.Modulus.String()
		resp.Message = err.Error()
	default:
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CipherHandler) Encrypt(c *gin.Context) {
	h.transformJSON(c, true)
}

func (h *CipherHandler) Decrypt(c *gin.Context) {
	h.transformJSON(c, false)
}

func (h *CipherHandler) EncryptFile(c *gin.Context) {
	h.transformFile(c, true)
}

func (h *CipherHandler) DecryptFile(c *gin.Context) {
	h.transformFile(c, false)
}

func (h *CipherHandler) transformJSON(c *gin.Context, encrypt bool) {
	var req models.CipherRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cfg := h.resolve(*req.Multiplier, *req.Offset, req.BlockSize, req.DigitWidth)
	out, err := h.run(c, cfg, req.Text, encrypt)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := models.CipherResponse{
		Success:           true,
		Result:            out.text,
		Modulus:           out.modulus,
		Blocks:            out.blocks,
		RemovedCharacters: out.removed,
	}
	if encrypt {
		resp.Message = "Message encrypted"
	} else {
		resp.Message = "Message decrypted"
	}
	if out.removed > 0 {
		resp.Warning = sanitizeWarning
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CipherHandler) transformFile(c *gin.Context, encrypt bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if tooLarge := asTooLarge(err); tooLarge != nil {
			h.respondError(c, tooLarge)
			return
		}
		h.respondBadRequest(c, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	cfg, err := h.formConfig(c)
	if err != nil {
		h.respondBadRequest(c, err.Error())
		return
	}

	field := "cipher_file"
	if encrypt {
		field = "text_file"
	}
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		h.respondBadRequest(c, fmt.Sprintf("%s is required", strings.ReplaceAll(field, "_", " ")))
		return
	}
	defer file.Close()

	input, err := textio.Read(file, h.maxUploadBytes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out, err := h.run(c, cfg, input, encrypt)
	if err != nil {
		h.respondError(c, err)
		return
	}

	suffix := "_decrypted.txt"
	if encrypt {
		suffix = "_encrypted.txt"
	}
	baseFilename := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	outputFilename := baseFilename + suffix

	// Set headers for file download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("Content-Length", strconv.Itoa(len(out.text)))

	c.Header("X-Affine-Modulus", out.modulus)
	c.Header("X-Affine-Blocks", strconv.Itoa(out.blocks))
	if out.removed > 0 {
		c.Header("X-Affine-Warning", fmt.Sprintf("%s (%d removed)", sanitizeWarning, out.removed))
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(out.text))
}

// bindJSON decodes a size-limited JSON body into obj and writes the error
// response itself when that fails.
func (h *CipherHandler) bindJSON(c *gin.Context, obj any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.ShouldBindJSON(obj); err != nil {
		if tooLarge := asTooLarge(err); tooLarge != nil {
			h.respondError(c, tooLarge)
			return false
		}
		h.respondBadRequest(c, fmt.Sprintf("Invalid request: %v", err))
		return false
	}
	return true
}

// asTooLarge converts a body limit failure into textio.ErrTooLarge, or
// returns nil for any other error.
func asTooLarge(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", textio.ErrTooLarge, tooLarge.Limit)
	}
	return nil
}

type transformResult struct {
	text    string
	modulus string
	blocks  int
	removed int
}

func (h *CipherHandler) run(c *gin.Context, cfg models.CipherConfig, input string, encrypt bool) (transformResult, error) {
	cipher, err := crypto.NewBlockAffine(cfg.Crypto())
	if err != nil {
		return transformResult{}, err
	}

	res := transformResult{modulus: cipher.Modulus().String()}
	var ciphertext string
	if encrypt {
		res.text, res.removed, err = cipher.EncryptText(input)
		if err != nil {
			return transformResult{}, err
		}
		ciphertext = res.text
		if res.removed > 0 {
			h.logger.Warn("illegal characters removed before encryption",
				slog.String("request_id", requestID(c)),
				slog.Int("removed", res.removed))
		}
	} else {
		ciphertext = textio.TrimLineEnding(input)
		res.text, err = cipher.Decrypt(ciphertext)
		if err != nil {
			return transformResult{}, err
		}
	}

	res.blocks = utf8.RuneCountInString(ciphertext) / cipher.BlockSize()
	return res, nil
}

// resolve fills unset block parameters from the service defaults.
func (h *CipherHandler) resolve(multiplier, offset int64, blockSize, digitWidth int) models.CipherConfig {
	if blockSize == 0 {
		blockSize = h.defaults.BlockSize
	}
	if digitWidth == 0 {
		digitWidth = h.defaults.DigitWidth
	}
	return models.CipherConfig{
		Multiplier: multiplier,
		Offset:     offset,
		BlockSize:  blockSize,
		DigitWidth: digitWidth,
	}
}

func (h *CipherHandler) formConfig(c *gin.Context) (models.CipherConfig, error) {
	multiplier, err := parseFormInt(c, "multiplier", true)
	if err != nil {
		return models.CipherConfig{}, err
	}
	offset, err := parseFormInt(c, "offset", true)
	if err != nil {
		return models.CipherConfig{}, err
	}
	blockSize, err := parseFormInt(c, "block_size", false)
	if err != nil {
		return models.CipherConfig{}, err
	}
	digitWidth, err := parseFormInt(c, "digit_width", false)
	if err != nil {
		return models.CipherConfig{}, err
	}
	return h.resolve(multiplier, offset, int(blockSize), int(digitWidth)), nil
}

func parseFormInt(c *gin.Context, field string, required bool) (int64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%s is required", strings.ReplaceAll(field, "_", " "))
		}
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", strings.ReplaceAll(field, "_", " "))
	}
	return n, nil
}

func (h *CipherHandler) respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorKind: "request",
	})
}

// respondError maps cipher and input errors onto HTTP statuses.
func (h *CipherHandler) respondError(c *gin.Context, err error) {
	status, kind := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, crypto.ErrConfiguration):
		status, kind = http.StatusBadRequest, "configuration"
	case errors.Is(err, crypto.ErrInvalidSymbol):
		status, kind = http.StatusBadRequest, "invalid_symbol"
	case errors.Is(err, crypto.ErrMalformedCiphertext):
		status, kind = http.StatusBadRequest, "malformed_ciphertext"
	case errors.Is(err, crypto.ErrOverflow):
		kind = "overflow"
	case errors.Is(err, textio.ErrTooLarge):
		status, kind = http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, textio.ErrNotUTF8):
		status, kind = http.StatusBadRequest, "encoding"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("cipher request failed",
			slog.String("request_id", requestID(c)),
			slog.String("error_kind", kind),
			slog.Any("error", err))
	}

	c.JSON(status, models.ErrorResponse{
		Success:   false,
		Message:   err.Error(),
		ErrorKind: kind,
	})
}
