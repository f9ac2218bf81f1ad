package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Remote le magasin de panier distant, adossé à l'API HTTP. Toutes les
// mutations renvoient le panier complet mis à jour, le serveur étant la
// seule source de vérité après chaque opération.
type Remote interface {
	FetchCart(ctx context.Context) ([]Line, error)
	AddLine(ctx context.Context, line Line, quantity int) ([]Line, error)
	UpdateLineQuantity(ctx context.Context, serviceID, quantity int) ([]Line, error)
	DeleteLine(ctx context.Context, serviceID int) ([]Line, error)
	DeleteAll(ctx context.Context) ([]Line, error)
}

// APIError réponse d'erreur structurée de l'API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// TokenProvider fournit le jeton d'accès courant, chaîne vide si absent.
type TokenProvider func() string

// Client implémentation HTTP de Remote.
type Client struct {
	baseURL    string
	token      TokenProvider
	httpClient *http.Client
}

func NewClient(baseURL string, token TokenProvider) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) FetchCart(ctx context.Context) ([]Line, error) {
	return c.doRequest(ctx, http.MethodGet, "/cart", nil)
}

type addLineRequest struct {
	ServiceID    int     `json:"service_id"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prix_unitaire"`
	Nom          string  `json:"nom,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	Slug         string  `json:"slugs,omitempty"`
}

func (c *Client) AddLine(ctx context.Context, line Line, quantity int) ([]Line, error) {
	return c.doRequest(ctx, http.MethodPost, "/cart", addLineRequest{
		ServiceID:    line.ServiceID,
		Quantite:     quantity,
		PrixUnitaire: line.PrixUnitaire,
		Nom:          line.Nom,
		ImageURL:     line.ImageURL,
		Slug:         line.Slug,
	})
}

type updateQuantityRequest struct {
	Quantite int `json:"quantite"`
}

func (c *Client) UpdateLineQuantity(ctx context.Context, serviceID, quantity int) ([]Line, error) {
	path := fmt.Sprintf("/cart/item/%d", serviceID)
	return c.doRequest(ctx, http.MethodPut, path, updateQuantityRequest{Quantite: quantity})
}

func (c *Client) DeleteLine(ctx context.Context, serviceID int) ([]Line, error) {
	path := fmt.Sprintf("/cart/item/%d", serviceID)
	return c.doRequest(ctx, http.MethodDelete, path, nil)
}

func (c *Client) DeleteAll(ctx context.Context) ([]Line, error) {
	return c.doRequest(ctx, http.MethodDelete, "/cart", nil)
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]Line, error) {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		// le corps d'erreur porte un message utilisateur quand il est JSON
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return nil, apiErr
	}

	lines, err := ParseLines(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cart response: %w", err)
	}
	return lines, nil
}
