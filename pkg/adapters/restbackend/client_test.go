package restbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelstreet/automai-sub009/pkg/adapters/logger"
)

func TestClient_FetchNewFrames(t *testing.T) {
	var gotBody fetchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != listCapturesPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"frames": []map[string]interface{}{
				{"path": "/captures/41.jpg", "frame_number": 41, "timestamp": 1700000041000},
				{"path": "/captures/42.jpg", "frame_number": 42, "timestamp": 1700000042000},
				{"path": "", "frame_number": 43, "timestamp": 1700000043000}, // malformed, dropped
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, "rack-3", "firetv-01", logger.NewNoop())
	frames, err := c.FetchNewFrames(context.Background(), 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBody.Host != "rack-3" || gotBody.DeviceID != "firetv-01" || gotBody.SinceFrameNumber != 40 {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames (malformed dropped), got %d", len(frames))
	}
	if frames[0].Number != 41 || frames[1].Number != 42 {
		t.Errorf("unexpected frame numbers: %d, %d", frames[0].Number, frames[1].Number)
	}
	if frames[0].Path != "/captures/41.jpg" {
		t.Errorf("unexpected path: %s", frames[0].Path)
	}
	if frames[0].Timestamp.UnixMilli() != 1700000041000 {
		t.Errorf("unexpected timestamp: %v", frames[0].Timestamp)
	}
}

func TestClient_FetchNewFrames_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "device not found",
		})
	}))
	defer server.Close()

	c := New(server.URL, "rack-3", "ghost", logger.NewNoop())
	if _, err := c.FetchNewFrames(context.Background(), 0); err == nil {
		t.Error("expected error from unsuccessful response")
	}
}

func TestClient_FetchNewFrames_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL, "rack-3", "firetv-01", logger.NewNoop())
	if _, err := c.FetchNewFrames(context.Background(), 0); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestClient_AnalyzeFrame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != analyzeFramePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"analysis": map[string]interface{}{
				"blackscreen": map[string]interface{}{"detected": true, "consecutive_frames": 3, "confidence": 0.98},
				"freeze":      map[string]interface{}{"detected": false},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, "rack-3", "firetv-01", logger.NewNoop())
	analysis, err := c.AnalyzeFrame(context.Background(), "/captures/42.jpg", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !analysis.Blackscreen.Detected || analysis.Blackscreen.ConsecutiveFrames != 3 {
		t.Errorf("blackscreen result not decoded: %+v", analysis.Blackscreen)
	}
	// Status omitted by the backend is derived from the detections.
	if analysis.Status != "issue" {
		t.Errorf("expected derived status issue, got %q", analysis.Status)
	}
}

func TestClient_AnalyzeFrame_MissingPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	c := New(server.URL, "rack-3", "firetv-01", logger.NewNoop())
	if _, err := c.AnalyzeFrame(context.Background(), "/captures/1.jpg", 1); err == nil {
		t.Error("expected error for missing analysis payload")
	}
}

func TestClient_DetectSubtitles(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":                 true,
			"subtitles_detected":      true,
			"combined_extracted_text": "Previously on Automai",
			"detected_language":       "en",
			"results": []map[string]interface{}{
				{"confidence": 0.81, "extracted_text": "Previously on", "detected_language": "en"},
				{"confidence": 0.94, "extracted_text": "Automai", "detected_language": "en"},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, "rack-3", "firetv-01", logger.NewNoop())

	detection, err := c.OCRSubtitles().DetectSubtitles(context.Background(), "/captures/42.jpg", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != detectSubtitlesPath {
		t.Errorf("expected OCR endpoint, got %s", gotPath)
	}
	if !detection.Detected || detection.Text != "Previously on Automai" {
		t.Errorf("unexpected detection: %+v", detection)
	}
	if detection.Language != "en" {
		t.Errorf("unexpected language: %q", detection.Language)
	}
	if detection.Confidence != 0.94 {
		t.Errorf("expected best region confidence 0.94, got %f", detection.Confidence)
	}

	if _, err := c.AISubtitles().DetectSubtitles(context.Background(), "/captures/42.jpg", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != detectSubtitlesAI {
		t.Errorf("expected AI endpoint, got %s", gotPath)
	}
}

func TestClient_DetectSubtitles_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   "model not loaded",
		})
	}))
	defer server.Close()

	c := New(server.URL, "rack-3", "firetv-01", logger.NewNoop())
	if _, err := c.AISubtitles().DetectSubtitles(context.Background(), "/captures/1.jpg", true); err == nil {
		t.Error("expected error from unsuccessful response")
	}
}
