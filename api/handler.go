package api

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/collection"
	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/session"
	"github.com/raushankrgupta/stylis/stylist"
	"github.com/raushankrgupta/stylis/utils"
)

// Importer pulls the item image off a product page.
type Importer interface {
	Import(ctx context.Context, productURL string) (models.UploadedImage, *models.Product, error)
}

// Mailer delivers a saved look by email.
type Mailer interface {
	Enabled() bool
	SendEmail(toName, toEmail, subject, textContent, htmlContent string, attachments ...utils.Attachment) error
}

// Deps are the collaborators the HTTP layer is built on.
type Deps struct {
	Session       *session.Session
	Store         *collection.Store
	Importer      Importer
	Mailer        Mailer
	JWTSecret     string
	MaxUploadSize int64
	Logger        *zap.Logger
}

// Handler exposes the live session and the saved collection over HTTP.
type Handler struct {
	session       *session.Session
	store         *collection.Store
	importer      Importer
	mailer        Mailer
	jwtSecret     string
	maxUploadSize int64
	logger        *zap.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		session:       d.Session,
		store:         d.Store,
		importer:      d.Importer,
		mailer:        d.Mailer,
		jwtSecret:     d.JWTSecret,
		maxUploadSize: d.MaxUploadSize,
		logger:        d.Logger.With(zap.String("system", "api")),
	}
}

// Router registers every route and wraps them with CORS and request logging.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("GET /session", h.GetSession)
	mux.HandleFunc("POST /session/upload", h.Upload)
	mux.HandleFunc("POST /session/import", h.Import)
	mux.HandleFunc("POST /session/outfits/{category}/edit", h.requireSessionToken(h.EditOutfit))
	mux.HandleFunc("POST /session/reset", h.Reset)
	mux.HandleFunc("DELETE /session/error", h.DismissError)

	mux.HandleFunc("GET /collection", h.ListCollection)
	mux.HandleFunc("POST /collection", h.requireSessionToken(h.SaveOutfit))
	mux.HandleFunc("DELETE /collection/{id}", h.RemoveOutfit)
	mux.HandleFunc("GET /collection/{id}/image", h.ExportImage)
	mux.HandleFunc("POST /collection/{id}/share", h.ShareOutfit)

	return utils.CORSMiddleware(utils.LatencyMiddleware(h.logger, mux))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"generation": h.session.Generation(),
		"saved":      h.store.Count(),
	})
}

// respondDomainError maps a domain error to its status and writes it.
func (h *Handler) respondDomainError(w http.ResponseWriter, message string, err error) {
	utils.RespondError(w, h.logger, statusFor(err), message, err)
}

func statusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	for _, mapStatus := range []func(error) int{
		session.MapHTTPStatus,
		collection.MapHTTPStatus,
		stylist.MapHTTPStatus,
	} {
		if status := mapStatus(err); status != http.StatusInternalServerError {
			return status
		}
	}
	return http.StatusInternalServerError
}
