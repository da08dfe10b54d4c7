package server

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmorante/charla/internal/keyword"
	"github.com/dmorante/charla/internal/prompts"
	"github.com/dmorante/charla/internal/storage"
	"github.com/dmorante/charla/internal/summarize"
)

const maxUploadBytes = 32 << 20

type uploadResponse struct {
	Summaries []summarize.ChunkSummary `json:"summaries"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	var headers []*multipart.FileHeader
	for _, fhs := range r.MultipartForm.File {
		headers = append(headers, fhs...)
	}
	if len(headers) != 1 {
		s.respondError(w, http.StatusBadRequest, "exactly one file is required")
		return
	}
	up := headers[0]
	f, err := up.Open()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "cannot read uploaded file")
		return
	}

	hint := up.Header.Get("Content-Type")
	if hint == "" || hint == "application/octet-stream" {
		hint = filepath.Ext(up.Filename)
	}
	text, err := s.extractor.ExtractBytes(content, hint)
	if err != nil {
		s.logger.Error("extraction failed", zap.String("file", up.Filename), zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, "could not extract text from document")
		return
	}

	sid := sessionID(r)
	s.logger.Info("document uploaded",
		zap.String("session", sid),
		zap.String("file", up.Filename),
		zap.Int("bytes", len(content)))

	chunks := s.splitter.Split(text)
	summaries := s.summarizer.SummarizeDocument(r.Context(), sid, chunks)
	s.respondJSON(w, http.StatusOK, uploadResponse{Summaries: summaries})
}

type messageRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	reply, err := s.answerer.Answer(r.Context(), sessionID(r), req.Message)
	if err != nil {
		s.logger.Error("answer failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleMessageStream(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	setSSEHeaders(w)

	reply, err := s.answerer.Stream(r.Context(), sessionID(r), req.Message, func(delta string) error {
		return writeSSE(w, flusher, "", map[string]string{"delta": delta})
	})
	if err != nil {
		// Headers are already out; report the failure in-band.
		_ = writeSSE(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}
	_ = writeSSE(w, flusher, "done", map[string]string{"reply": reply})
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	turns := s.registry.Get(sessionID(r))
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"history": turns})
}

func (s *Server) handleSessionSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	k := 5
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = n
	}
	hits, err := s.keywords.Search(sessionID(r), query, k)
	if err != nil {
		s.logger.Error("keyword search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hits == nil {
		hits = []keyword.Hit{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"hits": hits})
}

func (s *Server) handleGeneratePost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := prompts.PostOptions{
		Role:               q.Get("role"),
		Tone:               q.Get("tone"),
		Style:              q.Get("style"),
		Language:           q.Get("language"),
		CustomInstructions: q.Get("instructions"),
	}
	text, err := s.generator.GeneratePost(r.Context(), opts)
	if err != nil {
		s.logger.Error("post generation failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	post := &storage.Post{ID: uuid.New().String(), Text: text}
	if err := s.posts.SavePost(r.Context(), post); err != nil {
		s.logger.Warn("failed to archive post", zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, post)
}

type publishRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (s *Server) handlePublishPost(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	fbID, err := s.publisher.Publish(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("publish failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if req.ID == "" {
		post := &storage.Post{ID: uuid.New().String(), Text: req.Text, Published: true, FacebookID: fbID}
		if err := s.posts.SavePost(r.Context(), post); err != nil {
			s.logger.Warn("failed to archive post", zap.Error(err))
		}
		req.ID = post.ID
	} else if err := s.posts.MarkPublished(r.Context(), req.ID, fbID); err != nil {
		s.logger.Warn("failed to mark post published", zap.String("id", req.ID), zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": req.ID, "facebook_id": fbID, "status": "published"})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	posts, err := s.posts.ListPosts(r.Context(), limit)
	if err != nil {
		s.logger.Error("list posts failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []*storage.Post{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
