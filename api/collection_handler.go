package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/mail"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/collection"
	"github.com/raushankrgupta/stylis/models"
	"github.com/raushankrgupta/stylis/session"
	"github.com/raushankrgupta/stylis/utils"
)

// SaveRequest names the category of the live session outfit to keep.
type SaveRequest struct {
	Category models.Category `json:"category"`
}

// ShareRequest is the recipient of a shared look.
type ShareRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ListCollection returns every saved outfit, most recent first
func (h *Handler) ListCollection(w http.ResponseWriter, r *http.Request) {
	outfits := h.store.List()
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"outfits": outfits,
		"count":   len(outfits),
	})
}

// SaveOutfit snapshots a live session outfit into the collection
func (h *Handler) SaveOutfit(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Category.Valid() {
		utils.RespondError(w, h.logger, http.StatusBadRequest, "Please provide a valid 'category'", err)
		return
	}

	generation, err := GetGenerationFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, h.logger, http.StatusUnauthorized, "Session token required", err)
		return
	}

	state, current := h.session.Current()
	if current != generation {
		h.respondDomainError(w, "Session has changed, reload and try again", session.ErrStaleSession)
		return
	}

	outfit, ok := state.Outfit(req.Category)
	if !ok {
		utils.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("No %s outfit in this session", req.Category), nil)
		return
	}
	if outfit.IsLoading {
		utils.RespondError(w, h.logger, http.StatusConflict, fmt.Sprintf("The %s outfit is still rendering", req.Category), nil)
		return
	}
	if outfit.ImageURL == "" {
		utils.RespondError(w, h.logger, http.StatusUnprocessableEntity, fmt.Sprintf("The %s outfit has no image to save", req.Category), nil)
		return
	}
	if h.store.ContainsImage(outfit.ImageURL) {
		h.respondDomainError(w, "This look is already in your collection", collection.ErrAlreadySaved)
		return
	}

	saved, err := h.store.Save(r.Context(), outfit, state)
	if err != nil {
		h.respondDomainError(w, "Could not save the outfit", err)
		return
	}
	if saved == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, saved)
}

// RemoveOutfit deletes a saved outfit. Unknown ids succeed.
func (h *Handler) RemoveOutfit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.store.Remove(r.Context(), id); err != nil {
		h.respondDomainError(w, "Could not remove the outfit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportImage downloads a saved render as an image file
func (h *Handler) ExportImage(w http.ResponseWriter, r *http.Request) {
	saved, img, ok := h.savedImage(w, r.PathValue("id"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(saved, img)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		h.logger.Warn("failed to write exported image", zap.String("id", saved.ID), zap.Error(err))
	}
}

// ShareOutfit emails a saved render to the given recipient
func (h *Handler) ShareOutfit(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil || !h.mailer.Enabled() {
		utils.RespondError(w, h.logger, http.StatusServiceUnavailable, "Sharing by email is not configured", nil)
		return
	}

	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		utils.RespondError(w, h.logger, http.StatusBadRequest, "Please provide a valid 'email'", err)
		return
	}

	saved, img, ok := h.savedImage(w, r.PathValue("id"))
	if !ok {
		return
	}

	subject := fmt.Sprintf("Your %s look: %s", saved.Category, saved.ItemName)
	text := fmt.Sprintf("%s\n\n%s\n\nPalette: %s", saved.Description, saved.StyleDescription, strings.Join(saved.ColorPalette, ", "))
	htmlBody := fmt.Sprintf("<h2>%s</h2><p>%s</p><p><em>%s</em></p>",
		html.EscapeString(subject), html.EscapeString(saved.Description), html.EscapeString(saved.StyleDescription))

	attachment := utils.Attachment{Filename: exportFilename(saved, img), MIMEType: img.MIMEType, Data: img.Data}
	if err := h.mailer.SendEmail(req.Name, req.Email, subject, text, htmlBody, attachment); err != nil {
		utils.RespondError(w, h.logger, http.StatusBadGateway, "Could not send the email", err)
		return
	}

	h.logger.Info("outfit shared", zap.String("id", saved.ID))
	w.WriteHeader(http.StatusNoContent)
}

// savedImage looks up a saved outfit and decodes its render, writing the
// error response itself when either fails.
func (h *Handler) savedImage(w http.ResponseWriter, id string) (models.SavedOutfit, models.UploadedImage, bool) {
	saved, err := h.store.Find(id)
	if err != nil {
		h.respondDomainError(w, "Saved outfit not found", err)
		return saved, models.UploadedImage{}, false
	}

	img, err := models.ParseDataURI(saved.ImageURL)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDataURI) {
			utils.RespondError(w, h.logger, http.StatusUnprocessableEntity, "Saved outfit has no exportable image", err)
		} else {
			utils.RespondError(w, h.logger, http.StatusInternalServerError, "Could not decode saved image", err)
		}
		return saved, models.UploadedImage{}, false
	}
	return saved, img, true
}

// exportFilename names a saved look "Stylis-<item>-<category>.<ext>".
func exportFilename(saved models.SavedOutfit, img models.UploadedImage) string {
	ext := "png"
	if sub, ok := strings.CutPrefix(img.MIMEType, "image/"); ok && sub != "" {
		ext = strings.TrimSuffix(sub, "+xml")
	}
	if ext == "jpeg" {
		ext = "jpg"
	}

	item := fileToken(saved.ItemName)
	if item == "" {
		item = "Look"
	}
	return fmt.Sprintf("Stylis-%s-%s.%s", item, fileToken(string(saved.Category)), ext)
}

// fileToken keeps letters, digits and dashes, turning whitespace runs into a
// single dash.
func fileToken(s string) string {
	var b strings.Builder
	for _, field := range strings.Fields(s) {
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
				b.WriteRune(r)
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
