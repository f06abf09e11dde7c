package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"github.com/scerios/quiz/domain"
)

type BoardStore interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetRoundLimit(ctx context.Context) (int, error)
}

type Handler struct {
	store    BoardStore
	boardURL string
	log      zerolog.Logger
}

func NewHandler(store BoardStore, boardURL string, log zerolog.Logger) *Handler {
	return &Handler{store: store, boardURL: boardURL, log: log}
}

// BoardHandler returns the data the game board boots from: the category grid
// and the current round limit.
func (h *Handler) BoardHandler(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()

	categories, err := h.store.ListCategories(reqCtx)
	if err != nil {
		h.log.Error().Err(err).Msg("list categories failed")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}

	limit, err := h.store.GetRoundLimit(reqCtx)
	if err != nil {
		h.log.Error().Err(err).Msg("get round limit failed")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"roundLimit": limit,
	})
}

const qrSize = 512

// QRHandler serves a PNG QR code pointing players at the game board, for the
// projector screen on the control panel.
func (h *Handler) QRHandler(ctx *gin.Context) {
	png, err := qrcode.Encode(h.boardURL, qrcode.Medium, qrSize)
	if err != nil {
		h.log.Error().Err(err).Msg("qr encode failed")
		ctx.String(http.StatusInternalServerError, "unknown-error")
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}
