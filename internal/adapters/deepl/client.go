// Package deepl implements ports.Translator against the DeepL v2 API.
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cerr "crosscheck/internal/errors"
)

const (
	FreeURL = "https://api-free.deepl.com"
	ProURL  = "https://api.deepl.com"
)

const unavailableHint = "Manual translation comparison required"

type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

// New picks the endpoint from the key when baseURL is empty: free-tier keys
// end in ":fx".
func New(key, baseURL string) *Client {
	if baseURL == "" {
		baseURL = ProURL
		if strings.HasSuffix(key, ":fx") {
			baseURL = FreeURL
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type translateRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Text:       []string{text},
		SourceLang: strings.ToUpper(sourceLang),
		TargetLang: strings.ToUpper(targetLang),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", cerr.Wrap(fmt.Errorf("deepl request: %w", err), cerr.KindTranslationUnavailable, "translator_unreachable", unavailableHint)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", cerr.Wrap(fmt.Errorf("deepl returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			cerr.KindTranslationUnavailable, "translator_rejected", unavailableHint)
	}
	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", cerr.Wrap(fmt.Errorf("decode deepl response: %w", err), cerr.KindTranslationUnavailable, "translator_bad_response", unavailableHint)
	}
	if len(out.Translations) == 0 {
		return "", cerr.Wrap(fmt.Errorf("deepl returned no translations"), cerr.KindTranslationUnavailable, "translator_bad_response", unavailableHint)
	}
	return out.Translations[0].Text, nil
}
