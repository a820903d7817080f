package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tgstories/telegram-stories-bot/internal/admingate"
	"github.com/tgstories/telegram-stories-bot/internal/domain"
	"github.com/tgstories/telegram-stories-bot/internal/mediaingest"
	"github.com/tgstories/telegram-stories-bot/internal/reactionlog"
	"github.com/tgstories/telegram-stories-bot/internal/storystore"
)

type storyResponse struct {
	ID              int64     `json:"id"`
	MediaURL        string    `json:"mediaUrl"`
	Kind            string    `json:"kind"`
	CreatedAt       time.Time `json:"createdAt"`
	DurationSeconds float64   `json:"durationSeconds,omitempty"`
	Views           int       `json:"views"`
	Likes           int       `json:"likes"`
	Comments        []string  `json:"comments"`
}

func toStoryResponse(s *domain.Story) storyResponse {
	resp := storyResponse{
		ID:              s.ID,
		Kind:            string(s.Media.Kind),
		CreatedAt:       s.CreatedAt,
		DurationSeconds: s.DurationSeconds,
		Views:           s.Views,
		Likes:           s.Likes,
		Comments:        s.Comments,
	}
	if s.Media.Handle != nil {
		resp.MediaURL = s.Media.Handle.URL()
	}
	if resp.Comments == nil {
		resp.Comments = []string{}
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		s.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), verifyTimeout)
	defer cancel()

	capability, err := s.gate.RequestCapability(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, admingate.ErrDenied) {
			s.writeError(w, http.StatusForbidden, "you are not authorized to upload content")
			return
		}
		s.logger.Error("Verify failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"capability": capability.Token})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	capability := domain.Capability{Token: r.Header.Get(capabilityHeader)}

	asset, err := readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "please select a valid file")
		return
	}

	story, err := s.ingestor.Ingest(r.Context(), capability, asset)
	if err != nil {
		switch {
		case errors.Is(err, mediaingest.ErrUnauthorized):
			s.writeError(w, http.StatusUnauthorized, "only admins can upload content")
		case errors.Is(err, mediaingest.ErrNoFileSelected):
			s.writeError(w, http.StatusBadRequest, "please select a valid file")
		case errors.Is(err, mediaingest.ErrUnsupportedType):
			s.writeError(w, http.StatusUnsupportedMediaType, "please upload a valid image or video file")
		default:
			s.logger.Error("Ingest failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	s.writeJSON(w, http.StatusCreated, toStoryResponse(story))
}

// readUpload pulls the single file out of the multipart form. A
// missing part is reported by ingest as no-file-selected via an empty
// asset rather than failing here, matching the validation order.
func readUpload(r *http.Request) (domain.RawAsset, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.RawAsset{}, err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return domain.RawAsset{}, nil
		}
		return domain.RawAsset{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.RawAsset{}, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return domain.RawAsset{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	stories := s.store.All()
	out := make([]storyResponse, 0, len(stories))
	for _, st := range stories {
		out = append(out, toStoryResponse(st))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.storyID(w, r)
	if !ok {
		return
	}

	story, err := s.store.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "story not found")
		return
	}
	s.writeJSON(w, http.StatusOK, toStoryResponse(story))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id, ok := s.storyID(w, r)
	if !ok {
		return
	}

	views, err := s.tracker.RecordView(viewerFromContext(r.Context()), id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "story not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"views": views})
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := s.storyID(w, r)
	if !ok {
		return
	}

	likes, err := s.reactions.Like(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "story not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.storyID(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.reactions.Comment(id, req.Text); err != nil {
		switch {
		case errors.Is(err, reactionlog.ErrEmptyComment):
			s.writeError(w, http.StatusBadRequest, "comment cannot be empty")
		case errors.Is(err, storystore.ErrNotFound):
			s.writeError(w, http.StatusNotFound, "story not found")
		default:
			s.logger.Error("Comment failed", "storyID", id, "error", err)
			s.writeError(w, http.StatusInternalServerError, "comment failed")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, contentType, ok := s.media.Open(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "media not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write media", "id", id, "error", err)
	}
}

func (s *Server) storyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid story id")
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
