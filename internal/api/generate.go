package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/QTest-hq/qskel/internal/generator"
	"github.com/QTest-hq/qskel/pkg/model"
)

// maxModelBytes bounds the request body of a generate call
const maxModelBytes = 4 << 20

// EmitterInfo describes a registered emitter
type EmitterInfo struct {
	Name          string `json:"name"`
	Language      string `json:"language"`
	Framework     string `json:"framework"`
	FileExtension string `json:"file_extension"`
}

// EmittersResponse lists emitters and strategies
type EmittersResponse struct {
	Emitters   []EmitterInfo    `json:"emitters"`
	Strategies []model.Strategy `json:"strategies"`
}

// generate renders tests for the declaration model in the request body.
// Query parameters strategy, emitter and namespace override the server's
// project configuration.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxModelBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	m, err := model.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := s.options(r)
	result, err := s.gen.Generate(r.Context(), m, opts)
	switch {
	case errors.Is(err, generator.ErrNothingToGenerate):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, generator.ErrUnknownStrategy), errors.Is(err, generator.ErrUnknownEmitter):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("generation failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	stats := result.Suite.Stats()
	w.Header().Set("Content-Type", contentType(result.Emitter.Language()))
	w.Header().Set("X-Qskel-Model-Id", result.Suite.ModelID)
	w.Header().Set("X-Qskel-Cases", strconv.Itoa(stats["cases"]))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, result.Output)
}

func (s *Server) listEmitters(w http.ResponseWriter, r *http.Request) {
	registry := s.gen.Emitters()

	resp := EmittersResponse{Strategies: model.Strategies()}
	for _, name := range registry.List() {
		e, err := registry.Get(name)
		if err != nil {
			continue
		}
		resp.Emitters = append(resp.Emitters, EmitterInfo{
			Name:          e.Name(),
			Language:      e.Language(),
			Framework:     e.Framework(),
			FileExtension: e.FileExtension(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) options(r *http.Request) generator.Options {
	workers := 0
	if s.cfg != nil {
		workers = s.cfg.Workers
	}
	opts := generator.OptionsFromProject(s.project, workers)

	q := r.URL.Query()
	if v := q.Get("strategy"); v != "" {
		opts.Strategy = model.Strategy(v)
	}
	if v := q.Get("emitter"); v != "" {
		opts.Emitter = v
	}
	if v := q.Get("namespace"); v != "" {
		opts.Namespace = v
	}
	return opts
}

func contentType(language string) string {
	if language == "yaml" {
		return "application/yaml"
	}
	return "text/plain; charset=utf-8"
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
