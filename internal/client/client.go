// Package client is the HTTP adapter of the feedback REST API. Every non-2xx
// answer becomes an apperrors.AppError carrying the server's message;
// transport failures become NETWORK_ERROR.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
)

// DefaultBaseURL is used when REMONTEE_API_URL is unset.
const DefaultBaseURL = "http://localhost:3000/api"

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL (e.g. .../api).
// No timeout is set: requests last as long as ctx allows.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token; "" sends no Authorization header.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends the request and decodes a 2xx body into out (if non-nil).
// fallback is the message used when the server gives none.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorCodeNetwork, "Impossible de joindre le serveur", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp, fallback)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.ErrorCodeNetwork, "Réponse du serveur illisible", err)
	}
	return nil
}

func responseError(resp *http.Response, fallback string) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
	msg := eb.Message
	if msg == "" {
		msg = fallback
	}

	var code apperrors.ErrorCode
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		code = apperrors.ErrorCodeValidation
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		code = apperrors.ErrorCodeAuth
	case resp.StatusCode == http.StatusNotFound:
		code = apperrors.ErrorCodeNotFound
	case resp.StatusCode == http.StatusConflict:
		code = apperrors.ErrorCodeConflict
	default:
		code = apperrors.ErrorCodeInternal
	}
	return apperrors.Wrap(code, msg, fmt.Errorf("HTTP %d", resp.StatusCode))
}

// Login exchanges credentials for a token. The client keeps using its
// current token until SetToken is called.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/login", models.LoginRequest{Email: email, Password: password}, &resp, "Échec de la connexion")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, "Échec de la déconnexion")
}

// SubmitFeedback checks the required fields locally before posting.
func (c *Client) SubmitFeedback(ctx context.Context, sub models.FeedbackSubmission) (*models.Feedback, error) {
	sub.Normalize()
	if err := sub.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorCodeValidation, models.RequiredFieldsMessage, err)
	}
	var f models.Feedback
	if err := c.do(ctx, http.MethodPost, "/feedback", sub, &f, "Échec de l'envoi"); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFeedback returns every record in server order (newest first).
func (c *Client) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	var list []models.Feedback
	if err := c.do(ctx, http.MethodGet, "/feedback", nil, &list, "Impossible de charger les remontées"); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) ListPublicFeedback(ctx context.Context) ([]models.Feedback, error) {
	var list []models.Feedback
	if err := c.do(ctx, http.MethodGet, "/feedback/public", nil, &list, "Impossible de charger les demandes"); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetFeedback(ctx context.Context, id int) (*models.Feedback, error) {
	var f models.Feedback
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/feedback/%d", id), nil, &f, "Impossible de charger la remontée"); err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateStatus rejects unknown statuses without contacting the server.
func (c *Client) UpdateStatus(ctx context.Context, id int, status models.Status) (*models.Feedback, error) {
	if !status.Valid() {
		return nil, apperrors.Newf(apperrors.ErrorCodeValidation, "Statut invalide: %q", status)
	}
	var f models.Feedback
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/feedback/%d/status", id),
		models.StatusUpdateRequest{Status: status}, &f, "Échec de la mise à jour du statut")
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) UpdateAdminAction(ctx context.Context, id int, text string) (*models.Feedback, error) {
	var f models.Feedback
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/feedback/%d/admin-action", id),
		models.AdminActionRequest{ActionAdmin: text}, &f, "Échec de l'enregistrement de l'action")
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) DeleteFeedback(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/feedback/%d", id), nil, nil, "Échec de la suppression")
}

func (c *Client) FeedbackHistory(ctx context.Context, id int) ([]models.TriageEvent, error) {
	var events []models.TriageEvent
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/feedback/%d/history", id), nil, &events, "Impossible de charger l'historique"); err != nil {
		return nil, err
	}
	return events, nil
}

// ListActiveTypes is public.
func (c *Client) ListActiveTypes(ctx context.Context) ([]models.ProblemType, error) {
	var types []models.ProblemType
	if err := c.do(ctx, http.MethodGet, "/types", nil, &types, "Impossible de charger les types"); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) ListAllTypes(ctx context.Context) ([]models.ProblemType, error) {
	var types []models.ProblemType
	if err := c.do(ctx, http.MethodGet, "/admin/types", nil, &types, "Impossible de charger les types"); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) CreateType(ctx context.Context, label string) (*models.ProblemType, error) {
	var pt models.ProblemType
	if err := c.do(ctx, http.MethodPost, "/types", models.CreateProblemTypeRequest{Label: label}, &pt, "Échec de la création du type"); err != nil {
		return nil, err
	}
	return &pt, nil
}

func (c *Client) SetTypeActive(ctx context.Context, id int, active bool) (*models.ProblemType, error) {
	var pt models.ProblemType
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/types/%d", id),
		models.UpdateProblemTypeRequest{IsActive: &active}, &pt, "Échec de la mise à jour du type")
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func (c *Client) DeleteType(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/types/%d", id), nil, nil, "Échec de la suppression du type")
}
