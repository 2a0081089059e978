package http

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/kochabx/ciphertrace/core/aes"
	"github.com/kochabx/ciphertrace/core/caesar"
	"github.com/kochabx/ciphertrace/core/rsa"
	"github.com/kochabx/ciphertrace/core/trace"
	"github.com/kochabx/ciphertrace/core/validator"
	"github.com/kochabx/ciphertrace/errors"
	"github.com/kochabx/ciphertrace/session"
	"github.com/kochabx/ciphertrace/transport/http/metrics"
	"github.com/kochabx/ciphertrace/transport/http/response"
)

// Handler builds traces and registers them as shareable sessions.
type Handler struct {
	sessions  *session.Manager
	validate  validator.Validator
	shareBase string
}

type HandlerOption func(*Handler)

// WithShareBase sets the base URL embedded in share QR codes.
func WithShareBase(base string) HandlerOption {
	return func(h *Handler) {
		h.shareBase = base
	}
}

// WithValidator overrides the request validator.
func WithValidator(v validator.Validator) HandlerOption {
	return func(h *Handler) {
		h.validate = v
	}
}

func NewHandler(sessions *session.Manager, opts ...HandlerOption) *Handler {
	h := &Handler{
		sessions:  sessions,
		validate:  validator.Default(),
		shareBase: "http://localhost:8080",
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// CaesarRequest asks for a Caesar cipher trace.
type CaesarRequest struct {
	Text  string `json:"text" binding:"required,max=512"`
	Shift int    `json:"shift" binding:"required"`
}

// AESRequest asks for an AES-128 block trace. Both fields are 32 hex
// characters.
type AESRequest struct {
	Plaintext string `json:"plaintext" binding:"required,len=32,hexadecimal"`
	Key       string `json:"key" binding:"required,len=32,hexadecimal"`
}

// RSARequest asks for an RSA keygen/encrypt/decrypt trace.
type RSARequest struct {
	Message int64 `json:"message" binding:"min=0"`
	P       int64 `json:"p" binding:"required,min=2"`
	Q       int64 `json:"q" binding:"required,min=2"`
	E       int64 `json:"e" binding:"required,min=2"`
}

// TraceResult is the payload of every trace endpoint: the full step
// sequence plus a session id for playback and sharing.
type TraceResult struct {
	SessionID string          `json:"session_id"`
	Algorithm trace.Algorithm `json:"algorithm"`
	Total     int             `json:"total"`
	Steps     []trace.Step    `json:"steps"`
}

func (h *Handler) bind(c *gin.Context, req any) error {
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		return errors.Format("malformed request body: %v", err)
	}
	return h.validate.Struct(req)
}

// TraceCaesar handles POST /api/v1/trace/caesar.
func (h *Handler) TraceCaesar(c *gin.Context) {
	var req CaesarRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	h.respondTrace(c, trace.AlgorithmCaesar, func() (*trace.Sequence, error) {
		return caesar.BuildSteps(req.Text, req.Shift)
	})
}

// TraceAES handles POST /api/v1/trace/aes.
func (h *Handler) TraceAES(c *gin.Context) {
	var req AESRequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	h.respondTrace(c, trace.AlgorithmAES, func() (*trace.Sequence, error) {
		seq, _, err := aes.BuildSteps(req.Plaintext, req.Key)
		return seq, err
	})
}

// TraceRSA handles POST /api/v1/trace/rsa.
func (h *Handler) TraceRSA(c *gin.Context) {
	var req RSARequest
	if err := h.bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	h.respondTrace(c, trace.AlgorithmRSA, func() (*trace.Sequence, error) {
		return rsa.BuildSteps(req.Message, req.P, req.Q, req.E)
	})
}

func (h *Handler) respondTrace(c *gin.Context, algo trace.Algorithm, build func() (*trace.Sequence, error)) {
	start := time.Now()
	seq, err := build()
	metrics.Prom.TraceBuildDuration.WithLabelValues(string(algo)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Prom.TraceBuilds.WithLabelValues(string(algo), "error").Inc()
		response.Error(c, err)
		return
	}
	metrics.Prom.TraceBuilds.WithLabelValues(string(algo), "ok").Inc()

	sess := h.sessions.Create(algo, seq)
	metrics.Prom.ActiveSessions.Set(float64(h.sessions.Len()))

	response.JSON(c, TraceResult{
		SessionID: sess.ID,
		Algorithm: algo,
		Total:     seq.Len(),
		Steps:     seq.Steps(),
	})
}

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// QRResult carries the share link and its QR code as a base64 PNG.
type QRResult struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	PNG       []byte `json:"png"`
}

// ShareQR handles GET /api/v1/trace/:id/qr.
func (h *Handler) ShareQR(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		response.Error(c, err)
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, errors.InvalidInput("size must be an integer"))
			return
		}
		size = n
	}
	if size < minQRSize {
		size = minQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	url := h.shareBase + "/trace/" + sess.ID
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		response.Error(c, errors.Wrap(err, 500, "encode qr code"))
		return
	}

	response.JSON(c, QRResult{SessionID: sess.ID, URL: url, PNG: png})
}
