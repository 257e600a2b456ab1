package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/langtutor/content-pipeline/pkg/logger"
)

// transcriptLanguages in preference order. Anything else is picked up
// through the generated-track listing.
var transcriptLanguages = []string{"en", "en-US", "en-GB"}

// YouTubeExtractor resolves a video id, pulls metadata through the
// local yt-dlp binary and fetches a transcript over the timedtext
// endpoint. A missing transcript falls back to the video description;
// a missing video fails the extraction.
type YouTubeExtractor struct {
	binaryPath   string
	timedtextURL string
	httpClient   *http.Client
	logger       logger.Logger
}

func NewYouTubeExtractor(log logger.Logger) *YouTubeExtractor {
	return &YouTubeExtractor{
		binaryPath:   "yt-dlp", // assumes yt-dlp is in PATH
		timedtextURL: "https://video.google.com/timedtext",
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       log,
	}
}

// ExtractVideoID resolves the canonical video id from any accepted
// YouTube URL shape. Returns "" when the URL is not recognizable.
func ExtractVideoID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	switch parsed.Hostname() {
	case "youtu.be":
		return strings.TrimPrefix(parsed.Path, "/")
	case "youtube.com", "www.youtube.com", "m.youtube.com":
		if strings.Contains(parsed.Path, "watch") {
			return parsed.Query().Get("v")
		}
		if strings.Contains(parsed.Path, "embed") {
			parts := strings.Split(parsed.Path, "/")
			return parts[len(parts)-1]
		}
	}
	return ""
}

type ytdlpInfo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"` // seconds
	Uploader    string  `json:"uploader"`
}

func (e *YouTubeExtractor) Extract(ctx context.Context, source, _ string) (*Extraction, error) {
	videoID := ExtractVideoID(source)
	if videoID == "" {
		return nil, extractionErr(source, "invalid YouTube URL", nil)
	}

	info, err := e.fetchMetadata(ctx, source)
	if err != nil {
		return nil, extractionErr(source, "could not process YouTube video", err)
	}

	transcript, err := e.fetchTranscript(ctx, videoID)
	if err != nil || transcript == "" {
		if err != nil {
			e.logger.Warn("Could not get transcript, falling back to description",
				logger.String("videoId", videoID),
				logger.Error(err),
			)
		}
		transcript = info.Description
	}

	title := info.Title
	if title == "" {
		title = "Unknown Title"
	}

	return &Extraction{
		Title:     title,
		Content:   transcript,
		Author:    info.Uploader,
		Duration:  info.Duration / 60,
		WordCount: countWords(transcript),
		Language:  "en",
	}, nil
}

// fetchMetadata shells out to yt-dlp for title/description/duration.
func (e *YouTubeExtractor) fetchMetadata(ctx context.Context, videoURL string) (*ytdlpInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binaryPath, "--dump-json", "--no-warnings", "--skip-download", videoURL)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, stderr.String())
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return &info, nil
}

type timedtextTranscript struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

type timedtextTrackList struct {
	Tracks []struct {
		LangCode string `xml:"lang_code,attr"`
	} `xml:"track"`
}

// fetchTranscript tries the preferred languages first, then the first
// track the listing reports.
func (e *YouTubeExtractor) fetchTranscript(ctx context.Context, videoID string) (string, error) {
	for _, lang := range transcriptLanguages {
		text, err := e.fetchTranscriptLang(ctx, videoID, lang)
		if err == nil && text != "" {
			return text, nil
		}
	}

	langs, err := e.listTranscriptLanguages(ctx, videoID)
	if err != nil {
		return "", err
	}
	for _, lang := range langs {
		text, err := e.fetchTranscriptLang(ctx, videoID, lang)
		if err == nil && text != "" {
			return text, nil
		}
	}

	return "", nil
}

func (e *YouTubeExtractor) fetchTranscriptLang(ctx context.Context, videoID, lang string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s", e.timedtextURL, url.QueryEscape(lang), url.QueryEscape(videoID))

	body, err := e.get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var transcript timedtextTranscript
	if err := xml.Unmarshal(body, &transcript); err != nil {
		return "", fmt.Errorf("failed to parse transcript: %w", err)
	}

	lines := make([]string, 0, len(transcript.Texts))
	for _, t := range transcript.Texts {
		line := strings.TrimSpace(html.UnescapeString(t.Value))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (e *YouTubeExtractor) listTranscriptLanguages(ctx context.Context, videoID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s?type=list&v=%s", e.timedtextURL, url.QueryEscape(videoID))

	body, err := e.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var list timedtextTrackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse track list: %w", err)
	}

	langs := make([]string, 0, len(list.Tracks))
	for _, track := range list.Tracks {
		langs = append(langs, track.LangCode)
	}
	return langs, nil
}

func (e *YouTubeExtractor) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
