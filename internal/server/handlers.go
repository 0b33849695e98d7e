package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/jonathan/portfolio-builder/internal/ingestion"
	"github.com/jonathan/portfolio-builder/internal/pipeline"
	"github.com/jonathan/portfolio-builder/internal/server/middleware"
	"github.com/jonathan/portfolio-builder/internal/site"
)

// multipart bookkeeping allowed on top of the file itself
const formOverhead = 1 << 20

// GenerateResponse represents the response for /generate and the
// payload of the stream's complete event
type GenerateResponse struct {
	RunID      string            `json:"run_id"`
	HTML       string            `json:"html"`
	CSS        string            `json:"css"`
	JS         string            `json:"js"`
	Preview    string            `json:"preview"`
	Metadata   *site.Metadata    `json:"metadata,omitempty"`
	Source     *ingestion.Source `json:"source,omitempty"`
	Models     map[string]string `json:"models,omitempty"`
	DurationMS int64             `json:"duration_ms"`
	Location   string            `json:"location,omitempty"`
}

// upload is one résumé document read from a multipart request
type upload struct {
	data     []byte
	fileName string
	format   string
	publish  bool
}

// readUpload parses the multipart form: a "resume" file, an optional
// "format" hint and an optional "publish" flag
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "multipart/form-data" {
		return nil, &ErrValidation{Field: "body", Message: "expected multipart/form-data"}
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+formOverhead)
	if err := r.ParseMultipartForm(s.maxUpload + formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &ErrUploadTooLarge{Limit: s.maxUpload}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		return nil, &ErrValidation{Field: "resume", Message: "a résumé file is required"}
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		return nil, &ErrUploadTooLarge{Limit: s.maxUpload}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &ErrValidation{Field: "resume", Message: "failed to read file"}
	}

	format := r.FormValue("format")
	if format == "" {
		format = header.Header.Get("Content-Type")
	}

	publish, _ := strconv.ParseBool(r.FormValue("publish"))

	return &upload{
		data:     data,
		fileName: header.Filename,
		format:   format,
		publish:  publish,
	}, nil
}

// runPipeline runs one independent pipeline instance for an upload
func (s *Server) runPipeline(ctx context.Context, up *upload, onProgress pipeline.ProgressCallback) (*pipeline.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	requestID, _ := middleware.GetRequestID(ctx)
	log.Printf("Starting pipeline run for %q (%d bytes) request_id=%s", up.fileName, len(up.data), requestID)

	result, err := pipeline.Run(ctx, s.client, pipeline.RunOptions{
		Data:       up.data,
		FormatHint: up.format,
		FileName:   up.fileName,
		Out:        log.Writer(),
		OnProgress: onProgress,
	})
	if err != nil {
		log.Printf("Pipeline run failed: %v request_id=%s", err, requestID)
		return nil, err
	}

	log.Printf("Pipeline run %s completed in %v", result.RunID, result.Duration)
	return result, nil
}

// buildResponse assembles the JSON view of a result, publishing the zip when asked
func (s *Server) buildResponse(ctx context.Context, result *pipeline.Result, publish bool) (*GenerateResponse, error) {
	resp := &GenerateResponse{
		RunID:      result.RunID,
		HTML:       result.Bundle.HTML,
		CSS:        result.Bundle.CSS,
		JS:         result.Bundle.JS,
		Preview:    site.Preview(result.Bundle),
		Source:     result.Source,
		Models:     result.Models,
		DurationMS: result.Duration.Milliseconds(),
	}

	meta, err := site.Inspect(result.Bundle.HTML)
	if err != nil {
		log.Printf("Warning: failed to inspect generated HTML: %v", err)
	} else {
		resp.Metadata = meta
	}

	if publish {
		if s.publisher == nil {
			return nil, &ErrValidation{Field: "publish", Message: "publishing is not configured on this server"}
		}
		archive, err := site.Package(result.Bundle)
		if err != nil {
			return nil, err
		}
		location, err := s.publisher.Publish(ctx, result.RunID, s.archiveName, archive)
		if err != nil {
			return nil, fmt.Errorf("failed to publish site: %w", err)
		}
		resp.Location = location
	}

	return resp, nil
}

// handleGenerate runs the pipeline and returns the generated code as JSON
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runPipeline(r.Context(), up, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.buildResponse(r.Context(), result, up.publish)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID)
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateStream runs the pipeline and streams progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}

	onProgress := func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	result, err := s.runPipeline(r.Context(), up, onProgress)
	if err != nil {
		sse.WriteError(err)
		return
	}

	resp, err := s.buildResponse(r.Context(), result, up.publish)
	if err != nil {
		sse.WriteError(err)
		return
	}

	sse.WriteComplete(resp)
}

// handleGenerateZip runs the pipeline and returns the packaged site
func (s *Server) handleGenerateZip(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runPipeline(r.Context(), up, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}

	archive, err := site.Package(result.Bundle)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.archiveName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.Header().Set("X-Run-ID", result.RunID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive); err != nil {
		log.Printf("Error writing archive: %v", err)
	}
}
