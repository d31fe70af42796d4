package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sejour-pms/internal/breaker"
	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"

	"github.com/sony/gobreaker"
)

// API is the part of the REST server the point of sale talks to.
type API interface {
	ListSejours(ctx context.Context) ([]domain.Sejour, error)
	GetSejour(ctx context.Context, id int32) (*domain.SejourDetail, error)
	ListEtablissements(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error)
	ListExtras(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, error)
	ListConsommations(ctx context.Context, sejourID int32) ([]domain.Consommation, error)
	DeleteConsommation(ctx context.Context, id int32) error
	ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) ([]domain.Consommation, error)
	CloseSejour(ctx context.Context, id int32) error
	GenerateInvoice(ctx context.Context, sejourID int32) (*Invoice, error)
	SendInvoice(ctx context.Context, sejourID int32, email string) (string, error)
}

// Invoice is a PDF downloaded from the server.
type Invoice struct {
	Filename string
	PDF      []byte
}

// Client calls the REST server over HTTP.
type Client struct {
	baseURL string
	user    string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewClient returns a client for the server at baseURL. user is sent in the
// X-User header and ends up in the activity log and in closed_by.
func NewClient(baseURL string, timeout time.Duration, user string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		http:    &http.Client{Timeout: timeout},
		cb:      breaker.New("pos-api"),
	}
}

type response struct {
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, in interface{}) (*response, error) {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		payload = b
	}

	logger.ExternalServiceCall("API", method+" "+path)
	out, err := c.cb.Execute(func() (interface{}, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.user != "" {
			req.Header.Set("X-User", c.user)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			var e struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(data, &e) == nil {
				apiErr.Message = e.Error
			}
			return nil, apiErr
		}
		return &response{header: resp.Header, body: data}, nil
	})
	logger.ExternalServiceResult("API", method+" "+path, err)
	if err != nil {
		if breaker.IsOpen(err) {
			return nil, fmt.Errorf("server unavailable: %w", err)
		}
		return nil, err
	}
	return out.(*response), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) ListSejours(ctx context.Context) ([]domain.Sejour, error) {
	var list []domain.Sejour
	if err := c.getJSON(ctx, "/api/sejours", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetSejour(ctx context.Context, id int32) (*domain.SejourDetail, error) {
	var d domain.SejourDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/api/sejours/%d", id), &d); err != nil {
		return nil, err
	}
	if d.Sejour == nil {
		return nil, fmt.Errorf("sejour %d: empty detail payload", id)
	}
	return &d, nil
}

func (c *Client) ListEtablissements(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error) {
	q := url.Values{"actif_only": {strconv.FormatBool(actifOnly)}}
	var list []domain.Etablissement
	if err := c.getJSON(ctx, "/api/etablissements?"+q.Encode(), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) ListExtras(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, error) {
	q := url.Values{
		"etablissement_id": {strconv.Itoa(int(etablissementID))},
		"actif_only":       {strconv.FormatBool(actifOnly)},
	}
	var list []domain.Extra
	if err := c.getJSON(ctx, "/api/extras?"+q.Encode(), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) ListConsommations(ctx context.Context, sejourID int32) ([]domain.Consommation, error) {
	var list []domain.Consommation
	if err := c.getJSON(ctx, fmt.Sprintf("/api/sejours/%d/extras", sejourID), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) DeleteConsommation(ctx context.Context, id int32) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/sejours/extras/%d", id), nil)
	return err
}

func (c *Client) ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) ([]domain.Consommation, error) {
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/sejours/%d/extras/batch", sejourID),
		map[string]interface{}{"operations": ops})
	if err != nil {
		return nil, err
	}
	var out struct {
		Extras []domain.Consommation `json:"extras"`
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode batch answer: %w", err)
	}
	return out.Extras, nil
}

func (c *Client) CloseSejour(ctx context.Context, id int32) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/sejours/%d/close", id), nil)
	return err
}

func (c *Client) GenerateInvoice(ctx context.Context, sejourID int32) (*Invoice, error) {
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/sejours/%d/facture", sejourID), nil)
	if err != nil {
		return nil, err
	}
	inv := &Invoice{
		Filename: fmt.Sprintf("facture_%d.pdf", sejourID),
		PDF:      resp.body,
	}
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		inv.Filename = params["filename"]
	}
	return inv, nil
}

func (c *Client) SendInvoice(ctx context.Context, sejourID int32, email string) (string, error) {
	var body interface{}
	if email != "" {
		body = map[string]string{"email": email}
	}
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/sejours/%d/facture/envoyer", sejourID), body)
	if err != nil {
		return "", err
	}
	var out struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return "", fmt.Errorf("failed to decode answer: %w", err)
	}
	return out.Email, nil
}
