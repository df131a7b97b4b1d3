package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/httpresp"
	"github.com/BruksfildServices01/barbersaas/internal/infra/repository"
	"github.com/BruksfildServices01/barbersaas/internal/media"
	"github.com/BruksfildServices01/barbersaas/internal/middleware"
	ucBarber "github.com/BruksfildServices01/barbersaas/internal/usecase/barber"
)

type MeHandler struct {
	store   *repository.SnapshotStore
	toggle  *ucBarber.ToggleBlock
	photoUC *ucBarber.UploadPhoto
}

func NewMeHandler(
	store *repository.SnapshotStore,
	toggle *ucBarber.ToggleBlock,
	photoUC *ucBarber.UploadPhoto,
) *MeHandler {
	return &MeHandler{store: store, toggle: toggle, photoUC: photoUC}
}

type ToggleBlockRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time"` // vazio = dia inteiro
}

func (h *MeHandler) GetMe(c *gin.Context) {
	b, err := h.store.GetBarber(c.Request.Context(), middleware.BarberID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, b.Public())
}

func (h *MeHandler) ToggleBlock(c *gin.Context) {
	var req ToggleBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe a data.")
		return
	}

	res, err := h.toggle.Execute(c.Request.Context(), ucBarber.ToggleBlockInput{
		BarberID: middleware.BarberID(c),
		Date:     req.Date,
		Time:     req.Time,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	pub := res.Barber.Public()
	res.Barber = &pub
	httpresp.OK(c, res)
}

// UploadPhoto espera multipart com o campo "photo".
func (h *MeHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, media.MaxUploadBytes+1024)

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Envie a foto no campo \"photo\".")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Não foi possível ler a imagem.")
		return
	}
	defer f.Close()

	b, err := h.photoUC.Execute(c.Request.Context(), middleware.BarberID(c), f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, b)
}
