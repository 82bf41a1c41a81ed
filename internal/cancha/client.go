// Package cancha implements the HTTP client for the Cancha backend REST API.
//
// Every endpoint of the backend answers with the same envelope
// {exito, mensaje, datos}; list endpoints additionally carry the row
// collection under the entity plural key and a paginacion.total counter.
// The client decodes that envelope once so screens only ever see rows,
// totals and backend failure messages.
package cancha

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultTimeout is used when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// Row is a single decoded entity record as returned by the backend.
type Row map[string]any

// ResultPage holds one page of rows plus the authoritative total count.
type ResultPage struct {
	Rows  []Row
	Total int
}

// Resource describes one entity exposed through the uniform REST pattern.
type Resource struct {
	// BasePath is the URL prefix of the entity, e.g. "/reserva".
	BasePath string
	// Singular is the envelope key of a single record, e.g. "reserva".
	Singular string
	// Plural is the envelope key of the row collection, e.g. "reservas".
	Plural string
}

// Upload is a file attached to a multipart create or update.
type Upload struct {
	Field    string
	Filename string
	Content  []byte
}

// Client talks to the Cancha backend API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates a new backend client for the given base URL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

// WithToken returns a shallow copy of the client carrying the session's
// bearer token. The copy shares the underlying HTTP client.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token

	return &clone
}

// FetchPage issues exactly one list request for the given query.
// The endpoint is chosen from the query shape: search wins over filter,
// otherwise the plain list endpoint is used.
func (c *Client) FetchPage(ctx context.Context, res Resource, q PageQuery) (ResultPage, error) {
	q = q.Normalize(0)
	path, vals := q.Endpoint()

	env, err := c.do(ctx, http.MethodGet, res.BasePath+path, vals, nil, "")
	if err != nil {
		return ResultPage{}, err
	}

	var datos struct {
		Paginacion struct {
			Total int `json:"total"`
		} `json:"paginacion"`
	}

	if err = json.Unmarshal(env.Datos, &datos); err != nil {
		return ResultPage{}, errors.Wrap(err, "failed to decode pagination")
	}

	// rows sit under the entity plural key
	var keyed map[string]json.RawMessage
	if err = json.Unmarshal(env.Datos, &keyed); err != nil {
		return ResultPage{}, errors.Wrap(err, "failed to decode list payload")
	}

	var rows []Row

	if raw, ok := keyed[res.Plural]; ok {
		if err = json.Unmarshal(raw, &rows); err != nil {
			return ResultPage{}, errors.Wrapf(err, "failed to decode rows under %q", res.Plural)
		}
	}

	return ResultPage{Rows: rows, Total: datos.Paginacion.Total}, nil
}

// Detail fetches a single record by primary key. Composite keys are passed
// as additional path segments.
func (c *Client) Detail(ctx context.Context, res Resource, keys ...string) (Row, error) {
	env, err := c.do(ctx, http.MethodGet, res.BasePath+"/dato-individual/"+joinKeys(keys), nil, nil, "")
	if err != nil {
		return nil, err
	}

	var keyed map[string]json.RawMessage
	if err = json.Unmarshal(env.Datos, &keyed); err != nil {
		return nil, errors.Wrap(err, "failed to decode detail payload")
	}

	var row Row

	raw, ok := keyed[res.Singular]
	if !ok {
		return nil, errors.Errorf("detail payload is missing key %q", res.Singular)
	}

	if err = json.Unmarshal(raw, &row); err != nil {
		return nil, errors.Wrapf(err, "failed to decode record under %q", res.Singular)
	}

	return row, nil
}

// Create sends a JSON create request.
func (c *Client) Create(ctx context.Context, res Resource, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "failed to encode create payload")
	}

	_, err = c.do(ctx, http.MethodPost, res.BasePath+"/", nil, bytes.NewReader(body), "application/json")

	return err
}

// Patch sends a JSON partial update for the record with the given key(s).
func (c *Client) Patch(ctx context.Context, res Resource, fields map[string]any, keys ...string) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "failed to encode patch payload")
	}

	_, err = c.do(ctx, http.MethodPatch, res.BasePath+"/"+joinKeys(keys), nil, bytes.NewReader(body), "application/json")

	return err
}

// CreateMultipart sends a multipart create request carrying form fields and
// file uploads. Only the provided fields are attached.
func (c *Client) CreateMultipart(ctx context.Context, res Resource, fields map[string]string, uploads []Upload) error {
	body, contentType, err := encodeMultipart(fields, uploads)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPost, res.BasePath+"/", nil, body, contentType)

	return err
}

// PatchMultipart sends a multipart partial update carrying only changed
// fields and newly selected file uploads.
func (c *Client) PatchMultipart(
	ctx context.Context,
	res Resource,
	fields map[string]string,
	uploads []Upload,
	keys ...string,
) error {
	body, contentType, err := encodeMultipart(fields, uploads)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPatch, res.BasePath+"/"+joinKeys(keys), nil, body, contentType)

	return err
}

// Delete removes the record with the given key(s). Composite keys are passed
// as additional path segments.
func (c *Client) Delete(ctx context.Context, res Resource, keys ...string) error {
	_, err := c.do(ctx, http.MethodDelete, res.BasePath+"/"+joinKeys(keys), nil, nil, "")

	return err
}

// Login exchanges credentials for a session token and the user profile.
// Token issuance itself is owned by the backend.
func (c *Client) Login(ctx context.Context, correo, contrasena string) (string, Row, error) {
	payload, err := json.Marshal(map[string]string{
		"correo":     correo,
		"contrasena": contrasena,
	})
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to encode login payload")
	}

	env, err := c.do(ctx, http.MethodPost, "/auth/login", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", nil, err
	}

	var datos struct {
		Token   string `json:"token"`
		Usuario Row    `json:"usuario"`
	}

	if err = json.Unmarshal(env.Datos, &datos); err != nil {
		return "", nil, errors.Wrap(err, "failed to decode login payload")
	}

	if datos.Token == "" {
		return "", nil, ErrLoginWithoutToken
	}

	return datos.Token, datos.Usuario, nil
}

// do issues a single request and decodes the uniform response envelope.
// Application-level failures (exito=false) are returned as *APIError so
// handlers can surface the backend message to the user.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body io.Reader,
	contentType string,
) (*Envelope, error) {
	if c == nil {
		return nil, ErrClientNotInitialized
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target = target + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build backend request")
	}

	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.token != "" {
		req.Header.Set(headerAuthorization, bearerPrefix+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "backend request failed")
	}

	defer func() { _ = resp.Body.Close() }()

	var env Envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.Wrapf(err, "failed to decode backend response (status %d)", resp.StatusCode)
	}

	if !env.Exito {
		return nil, &APIError{Mensaje: env.Mensaje, StatusCode: resp.StatusCode}
	}

	return &env, nil
}

// joinKeys builds the path suffix for simple and composite primary keys.
func joinKeys(keys []string) string {
	escaped := make([]string, 0, len(keys))
	for _, k := range keys {
		escaped = append(escaped, url.PathEscape(k))
	}

	return strings.Join(escaped, "/")
}

// encodeMultipart builds a multipart body from form fields and uploads.
func encodeMultipart(fields map[string]string, uploads []Upload) (io.Reader, string, error) {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write multipart field %q", name)
		}
	}

	for _, up := range uploads {
		part, err := w.CreateFormFile(up.Field, up.Filename)
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to create multipart file %q", up.Field)
		}

		if _, err = part.Write(up.Content); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write multipart file %q", up.Field)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to finish multipart body")
	}

	return &buf, w.FormDataContentType(), nil
}
