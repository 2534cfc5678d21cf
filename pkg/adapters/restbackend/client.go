// Package restbackend implements the frame source, frame analyzer and
// subtitle detector ports against the capture host's REST API.
package restbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// Default endpoint paths on the capture host.
const (
	listCapturesPath    = "/host/monitoring/listCaptures"
	analyzeFramePath    = "/host/monitoring/analyzeFrame"
	detectSubtitlesPath = "/host/verification/video/detectSubtitles"
	detectSubtitlesAI   = "/host/verification/video/detectSubtitlesAI"
)

// Client talks to one capture host about one device. It implements
// ports.FrameSource and ports.FrameAnalyzer; subtitle detectors are
// derived with OCRSubtitles and AISubtitles.
type Client struct {
	baseURL  string
	host     string
	deviceID string
	http     *http.Client
	log      ports.Logger
}

// New creates a client for the given capture host base URL.
func New(baseURL, host, deviceID string, log ports.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		host:     host,
		deviceID: deviceID,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log.WithComponent("backend"),
	}
}

type fetchRequest struct {
	Host             string `json:"host"`
	DeviceID         string `json:"device_id"`
	SinceFrameNumber int64  `json:"since_frame_number"`
}

type wireFrame struct {
	Path        string `json:"path"`
	FrameNumber int64  `json:"frame_number"`
	Timestamp   int64  `json:"timestamp"` // Unix milliseconds
}

type fetchResponse struct {
	Success bool        `json:"success"`
	Frames  []wireFrame `json:"frames"`
	Error   string      `json:"error,omitempty"`
}

// FetchNewFrames implements ports.FrameSource.
func (c *Client) FetchNewFrames(ctx context.Context, sinceFrameNumber int64) ([]ports.CapturedFrame, error) {
	req := fetchRequest{
		Host:             c.host,
		DeviceID:         c.deviceID,
		SinceFrameNumber: sinceFrameNumber,
	}
	var resp fetchResponse
	if err := c.post(ctx, listCapturesPath, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, apiError("list captures", resp.Error)
	}

	frames := make([]ports.CapturedFrame, 0, len(resp.Frames))
	for _, f := range resp.Frames {
		if f.Path == "" || f.FrameNumber <= 0 {
			// Malformed entries are rejected at the boundary, not
			// propagated inward.
			c.log.Warn("Dropping malformed capture entry (path=%q, frame=%d)", f.Path, f.FrameNumber)
			continue
		}
		frames = append(frames, ports.CapturedFrame{
			Path:      f.Path,
			Number:    f.FrameNumber,
			Timestamp: time.UnixMilli(f.Timestamp),
		})
	}
	return frames, nil
}

type analyzeRequest struct {
	Host        string `json:"host"`
	DeviceID    string `json:"device_id"`
	FramePath   string `json:"frame_path"`
	FrameNumber int64  `json:"frame_number"`
}

type analyzeResponse struct {
	Success  bool            `json:"success"`
	Analysis *ports.Analysis `json:"analysis"`
	Error    string          `json:"error,omitempty"`
}

// AnalyzeFrame implements ports.FrameAnalyzer.
func (c *Client) AnalyzeFrame(ctx context.Context, framePath string, frameNumber int64) (ports.Analysis, error) {
	req := analyzeRequest{
		Host:        c.host,
		DeviceID:    c.deviceID,
		FramePath:   framePath,
		FrameNumber: frameNumber,
	}
	var resp analyzeResponse
	if err := c.post(ctx, analyzeFramePath, req, &resp); err != nil {
		return ports.Analysis{}, err
	}
	if !resp.Success {
		return ports.Analysis{}, apiError("analyze frame", resp.Error)
	}
	if resp.Analysis == nil {
		return ports.Analysis{}, fmt.Errorf("analyze frame: response missing analysis payload")
	}
	analysis := *resp.Analysis
	if analysis.Status == "" {
		analysis.Status = classify(analysis)
	}
	return analysis, nil
}

// classify derives an overall status when the backend omits one.
func classify(a ports.Analysis) ports.AnalysisStatus {
	if a.HasIssue() {
		return ports.StatusIssue
	}
	return ports.StatusOK
}

// subtitleClient binds one of the two subtitle endpoints to the
// SubtitleDetector port.
type subtitleClient struct {
	c    *Client
	path string
}

// OCRSubtitles returns the baseline OCR-style subtitle detector.
func (c *Client) OCRSubtitles() ports.SubtitleDetector {
	return &subtitleClient{c: c, path: detectSubtitlesPath}
}

// AISubtitles returns the AI-based subtitle detector.
func (c *Client) AISubtitles() ports.SubtitleDetector {
	return &subtitleClient{c: c, path: detectSubtitlesAI}
}

type subtitleRequest struct {
	Host           string `json:"host"`
	DeviceID       string `json:"device_id"`
	ImageSourceURL string `json:"image_source_url"`
	ExtractText    bool   `json:"extract_text"`
}

type subtitleResponse struct {
	Success               bool   `json:"success"`
	SubtitlesDetected     bool   `json:"subtitles_detected"`
	CombinedExtractedText string `json:"combined_extracted_text"`
	DetectedLanguage      string `json:"detected_language"`
	Results               []struct {
		Confidence       float64 `json:"confidence"`
		ExtractedText    string  `json:"extracted_text"`
		DetectedLanguage string  `json:"detected_language"`
	} `json:"results"`
	Error string `json:"error,omitempty"`
}

// DetectSubtitles implements ports.SubtitleDetector.
func (sc *subtitleClient) DetectSubtitles(ctx context.Context, imageSourceURL string, extractText bool) (ports.SubtitleDetection, error) {
	req := subtitleRequest{
		Host:           sc.c.host,
		DeviceID:       sc.c.deviceID,
		ImageSourceURL: imageSourceURL,
		ExtractText:    extractText,
	}
	var resp subtitleResponse
	if err := sc.c.post(ctx, sc.path, req, &resp); err != nil {
		return ports.SubtitleDetection{}, err
	}
	if !resp.Success {
		return ports.SubtitleDetection{}, apiError("detect subtitles", resp.Error)
	}

	detection := ports.SubtitleDetection{
		Detected: resp.SubtitlesDetected,
		Text:     resp.CombinedExtractedText,
		Language: resp.DetectedLanguage,
	}
	// The combined confidence is the best per-region confidence.
	for _, r := range resp.Results {
		if r.Confidence > detection.Confidence {
			detection.Confidence = r.Confidence
		}
	}
	return detection, nil
}

// post sends a JSON request and decodes a JSON response.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(op, msg string) error {
	if msg == "" {
		msg = "unknown backend error"
	}
	return fmt.Errorf("%s: %s", op, msg)
}

// Ensure Client implements the backend ports.
var (
	_ ports.FrameSource      = (*Client)(nil)
	_ ports.FrameAnalyzer    = (*Client)(nil)
	_ ports.SubtitleDetector = (*subtitleClient)(nil)
)
