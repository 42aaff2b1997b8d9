package plantnet

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// ConfidenceThreshold is the minimum score accepted for a match. Results at
// or below it are treated as unconfident and discarded.
const ConfidenceThreshold = 0.2

type Client struct {
	*http.Client
	BaseURL string
}

type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

type IdentifyResponse struct {
	Results []Result `json:"results"`
	Message string   `json:"message,omitempty"`
}

type Result struct {
	Score   float64 `json:"score"`
	Species Species `json:"species"`
}

type Species struct {
	ScientificNameWithoutAuthor string   `json:"scientificNameWithoutAuthor"`
	CommonNames                 []string `json:"commonNames"`
}

// RawResult carries the vendor status code and the unmodified JSON body so
// the proxy can relay both verbatim.
type RawResult struct {
	StatusCode int
	Body       []byte
}

// IdentifyRaw posts the image to the identification endpoint and returns the
// vendor response without interpreting it. A nil error means the HTTP round
// trip completed; the vendor may still have answered with a non-2xx status.
func (c *Client) IdentifyRaw(ctx context.Context, apiKey string, img Image) (*RawResult, error) {
	body, contentType, err := encodeForm(img)
	if err != nil {
		return nil, err
	}

	apiURL := c.BaseURL + "?api-key=" + url.QueryEscape(apiKey) + "&lang=pt"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "error creating identify request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error calling identification service")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading identification response")
	}
	return &RawResult{StatusCode: resp.StatusCode, Body: data}, nil
}

// Identify posts the image and decodes the vendor response. Non-2xx vendor
// statuses are returned as errors carrying the vendor message when present.
func (c *Client) Identify(ctx context.Context, apiKey string, img Image) (*IdentifyResponse, error) {
	raw, err := c.IdentifyRaw(ctx, apiKey, img)
	if err != nil {
		return nil, err
	}

	var out IdentifyResponse
	if err := json.Unmarshal(raw.Body, &out); err != nil {
		return nil, errors.Wrap(err, "error decoding identification response")
	}
	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		msg := out.Message
		if msg == "" {
			msg = http.StatusText(raw.StatusCode)
		}
		return nil, errors.Errorf("identification service returned %d: %s", raw.StatusCode, msg)
	}
	return &out, nil
}

func encodeForm(img Image) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	if err := mw.WriteField("organs", "leaf"); err != nil {
		return nil, "", errors.Wrap(err, "error writing organs field")
	}

	filename := img.Filename
	if filename == "" {
		filename = "upload.jpg"
	}
	fw, err := mw.CreateFormFile("images", filename)
	if err != nil {
		return nil, "", errors.Wrap(err, "error creating images part")
	}
	if _, err := fw.Write(img.Data); err != nil {
		return nil, "", errors.Wrap(err, "error writing image data")
	}
	if err := mw.Close(); err != nil {
		return nil, "", errors.Wrap(err, "error finalizing form")
	}
	return body, mw.FormDataContentType(), nil
}
