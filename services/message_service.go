package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tambaqui-prime/models"
)

// MessageService builds the WhatsApp order summary sent to the store. The
// primary path asks Gemini to format the message; any failure there (no
// key, network, malformed response) falls back to a deterministic local
// template, so the customer always gets a link.
type MessageService struct {
	apiKey      string
	baseURL     string
	model       string
	storeNumber string
	client      *http.Client
}

func NewMessageService(apiKey, baseURL, model, storeNumber string) *MessageService {
	return &MessageService{
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		storeNumber: storeNumber,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FallbackMessage is byte-for-byte reproducible for the same order.
func (s *MessageService) FallbackMessage(order models.Order) string {
	return fmt.Sprintf("Olá! Gostaria de confirmar meu pedido #%s.\nNome: %s\nTotal: R$ %s",
		order.ID, order.CustomerName, order.Total.StringFixed(2))
}

// FormatOrder returns the outbound message text and whether it came from
// the generation service (false means the deterministic fallback).
func (s *MessageService) FormatOrder(ctx context.Context, order models.Order) (string, bool) {
	if s.apiKey == "" {
		return s.FallbackMessage(order), false
	}

	message, err := s.generate(ctx, buildPrompt(order))
	if err != nil {
		log.Printf("Message generation failed, using fallback: %v", err)
		return s.FallbackMessage(order), false
	}
	return message, true
}

// WhatsAppLink builds the wa.me deep link with the percent-encoded message.
func (s *MessageService) WhatsAppLink(message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.storeNumber, url.QueryEscape(message))
}

func buildPrompt(order models.Order) string {
	var items []string
	for _, item := range order.Items {
		option := item.SelectedOption
		if option == "" {
			option = "Inteiro"
		}
		items = append(items, fmt.Sprintf("%skg %s (%s)", item.Quantity.String(), item.Name, option))
	}

	payment := string(order.PaymentMethod)
	if order.ChangeFor != "" {
		payment += fmt.Sprintf(" (Troco para %s)", order.ChangeFor)
	}

	return fmt.Sprintf(`Formate um pedido de peixe premium (Tambaqui Prime) para ser enviado via WhatsApp ao vendedor.
O tom deve ser profissional, claro e organizado.
Dados do Pedido:
ID: %s
Cliente: %s
Endereço: %s, %s, %s
Itens: %s
Pagamento: %s
Total: R$ %s
Retorne apenas o texto formatado com emojis adequados e espaçamento profissional.`,
		order.ID,
		order.CustomerName,
		order.DeliveryDetails.Street,
		order.DeliveryDetails.Number,
		order.DeliveryDetails.Neighborhood,
		strings.Join(items, ", "),
		payment,
		order.Total.StringFixed(2),
	)
}

// Request/response shapes for the Gemini generateContent REST API.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (s *MessageService) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("generation response malformed: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation response empty")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("generation response empty")
	}
	return text, nil
}
