package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// Sender is the outbound messaging channel used by the delivery pipeline.
type Sender interface {
	// SendText sends a MarkdownV2 message to a chat.
	SendText(chatID, text string) error
	// SendPhoto sends an image with a MarkdownV2 caption to a chat.
	SendPhoto(chatID string, photo []byte, caption string) error
	// SendLog sends an unformatted run-status message to the log chat.
	SendLog(chatID, text string) error
}

// Telegram sends messages via the Telegram Bot API.
type Telegram struct {
	BotToken string
	BaseURL  string
	Client   *http.Client
}

// NewTelegram creates a client with optional proxy support.
func NewTelegram(botToken, proxyURL string) *Telegram {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Telegram{
		BotToken: botToken,
		BaseURL:  "https://api.telegram.org",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (t *Telegram) SendText(chatID, text string) error {
	return t.sendMessage(chatID, text, "MarkdownV2")
}

func (t *Telegram) SendLog(chatID, text string) error {
	return t.sendMessage(chatID, text, "")
}

func (t *Telegram) sendMessage(chatID, text, parseMode string) error {
	payload := map[string]any{
		"chat_id":              chatID,
		"text":                 text,
		"disable_notification": true,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(t.apiURL("sendMessage"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendPhoto uploads an image via multipart form data.
func (t *Telegram) SendPhoto(chatID string, photo []byte, caption string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"chat_id":              chatID,
		"caption":              caption,
		"parse_mode":           "MarkdownV2",
		"disable_notification": "true",
	} {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	part, err := w.CreateFormFile("photo", "report.png")
	if err != nil {
		return fmt.Errorf("create photo part: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	resp, err := t.Client.Post(t.apiURL("sendPhoto"), w.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (t *Telegram) apiURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.BotToken, method)
}
