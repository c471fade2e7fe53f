package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/scrapers"
	"github.com/raushankrgupta/stylis/session"
	"github.com/raushankrgupta/stylis/utils"
)

// OutfitView is an outfit plus whether its render is already in the collection.
type OutfitView struct {
	models.GeneratedOutfit
	IsSaved bool `json:"is_saved"`
}

// SessionResponse is the session snapshot returned by every session route.
type SessionResponse struct {
	models.SessionState
	Outfits      []OutfitView    `json:"outfits"`
	SessionToken string          `json:"session_token"`
	Product      *models.Product `json:"product,omitempty"`
}

// UploadRequest is the JSON form of an upload.
type UploadRequest struct {
	Image string `json:"image"` // data URI
}

// ImportRequest names a product page to take the item image from.
type ImportRequest struct {
	URL string `json:"url"`
}

// EditRequest carries a free-text styling change.
type EditRequest struct {
	Instruction string `json:"instruction"`
}

// GetSession returns the current snapshot and a token bound to it
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.sessionResponse(nil))
}

// Upload starts a new session from a multipart "image" file or a JSON data URI
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	img, err := h.readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, "Image exceeds the upload limit", err)
			return
		}
		utils.RespondError(w, h.logger, http.StatusBadRequest, "Please provide an image file or data URI", err)
		return
	}

	h.startSession(w, r, img, nil)
}

// Import starts a new session from the item image on a product page
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		utils.RespondError(w, h.logger, http.StatusBadRequest, "Please provide a product 'url'", err)
		return
	}

	img, product, err := h.importer.Import(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		utils.RespondError(w, h.logger, scrapers.MapHTTPStatus(err), fmt.Sprintf("Could not import an item image: %v", err), err)
		return
	}

	h.startSession(w, r, img, product)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, img models.UploadedImage, product *models.Product) {
	err := h.session.Upload(r.Context(), img)
	if err == nil {
		utils.RespondJSON(w, http.StatusOK, h.sessionResponse(product))
		return
	}

	if errors.Is(err, session.ErrStaleSession) {
		utils.RespondError(w, h.logger, http.StatusConflict, "Upload was superseded by a newer session", err)
		return
	}

	// The session keeps the user-facing message.
	message := h.session.Snapshot().Error
	if message == "" {
		message = "Style analysis failed"
	}
	h.respondDomainError(w, message, err)
}

// EditOutfit refines one outfit's render with a free-text instruction
func (h *Handler) EditOutfit(w http.ResponseWriter, r *http.Request) {
	category := models.Category(r.PathValue("category"))
	if !category.Valid() {
		utils.RespondError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("Unknown category %q", category), nil)
		return
	}

	generation, err := GetGenerationFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, h.logger, http.StatusUnauthorized, "Session token required", err)
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Instruction) == "" {
		utils.RespondError(w, h.logger, http.StatusBadRequest, "Please provide an 'instruction'", err)
		return
	}

	// History keeps the instruction exactly as typed.
	outfit, err := h.session.EditAt(r.Context(), generation, category, req.Instruction)
	if err != nil {
		message := fmt.Sprintf("Could not process your edit for %s.", category)
		if errors.Is(err, session.ErrOutfitNotFound) {
			message = fmt.Sprintf("No %s outfit in this session", category)
		} else if errors.Is(err, session.ErrOutfitBusy) {
			message = fmt.Sprintf("The %s outfit is already being edited", category)
		} else if errors.Is(err, session.ErrStaleSession) {
			message = "Session has changed, reload and try again"
		}
		h.respondDomainError(w, message, err)
		return
	}

	h.logger.Info("outfit edited", zap.String("category", string(category)), zap.Int("history", len(outfit.EditHistory)))
	utils.RespondJSON(w, http.StatusOK, OutfitView{
		GeneratedOutfit: outfit,
		IsSaved:         h.store.ContainsImage(outfit.ImageURL),
	})
}

// Reset returns the session to idle
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.session.Reset()
	utils.RespondJSON(w, http.StatusOK, h.sessionResponse(nil))
}

// DismissError clears the session error banner
func (h *Handler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.session.DismissError()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sessionResponse(product *models.Product) SessionResponse {
	state, generation := h.session.Current()

	outfits := make([]OutfitView, 0, len(state.Outfits))
	for _, o := range state.Outfits {
		outfits = append(outfits, OutfitView{GeneratedOutfit: o, IsSaved: h.store.ContainsImage(o.ImageURL)})
	}

	return SessionResponse{
		SessionState: state,
		Outfits:      outfits,
		SessionToken: h.issueToken(generation),
		Product:      product,
	}
}

func (h *Handler) readUpload(r *http.Request) (models.UploadedImage, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var img models.UploadedImage
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			return img, err
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return img, err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return img, err
		}

		mimeType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			mimeType = http.DetectContentType(data)
		}
		img = models.UploadedImage{MIMEType: mimeType, Data: data}
	} else {
		var req UploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return img, err
		}
		parsed, err := models.ParseDataURI(req.Image)
		if err != nil {
			return img, err
		}
		img = parsed
	}

	if len(img.Data) == 0 || !img.IsImage() {
		return models.UploadedImage{}, fmt.Errorf("unsupported content type %q", img.MIMEType)
	}
	return img, nil
}
