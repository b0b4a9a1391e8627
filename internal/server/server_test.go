package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecchurro/lecchurro/internal/domain/quiz"
	"github.com/lecchurro/lecchurro/internal/pipeline"
	"github.com/lecchurro/lecchurro/internal/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{
		Address:  ":0",
		Pipeline: pipeline.Config{DataDir: t.TempDir()},
	})
}

func multipartVideo(t *testing.T, field, name string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake video bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestProcess_Success(t *testing.T) {
	s := newTestServer(t)
	s.processFn = func(_ context.Context, videoPath string) (types.PipelineResult, error) {
		assert.True(t, strings.HasSuffix(videoPath, "-lecture.mp4"))
		return types.PipelineResult{
			VideoPath:  "/data/video/lecture.mp4",
			Summary:    "summary text",
			Quizzes:    []types.QuizQuestion{{Question: "Q", Options: []string{"a", "b"}, Answer: "a"}},
			Flashcards: []types.Flashcard{{Front: "F", Back: "B"}},
			Timestamps: "<p>groups</p>",
		}, nil
	}

	body, contentType := multipartVideo(t, "video", "lecture.mp4")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", contentType)
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "summary text", resp["summary"])
	assert.Contains(t, resp["quiz_html"], "Question 1")
	assert.Contains(t, resp["flashcards"], "Flashcard 1")
	assert.NotContains(t, resp, "error")
}

func TestProcess_HardFailStillCompleteResponse(t *testing.T) {
	s := newTestServer(t)
	s.processFn = func(_ context.Context, _ string) (types.PipelineResult, error) {
		return types.PipelineResult{VideoPath: "Error extracting audio."}, errors.New("extract audio: boom")
	}

	body, contentType := multipartVideo(t, "video", "lecture.mp4")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", contentType)
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error extracting audio.", resp["video_path"])
	assert.Contains(t, resp["error"], "extract audio")
	assert.Equal(t, "No flashcards generated.", resp["flashcards"])
}

func TestProcess_MissingFile(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(""))
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGrade(t *testing.T) {
	s := newTestServer(t)

	payload := `{"answers":["a"],"quizzes":[{"question":"Q1","options":["a","b"],"answer":"a"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/grade", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Report string `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Report, "**Question 1**: Correct!")
}

func TestGrade_EmptyQuizzes(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/grade", strings.NewReader(`{"answers":["x"],"quizzes":[]}`))
	req.Header.Set("Content-Type", "application/json")
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Report string `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, quiz.NoQuizzesMessage, resp.Report)
}

func TestRuns_NoStore(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"runs":[]}`, w.Body.String())
}
