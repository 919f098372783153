package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// ErrSuperseded возвращается, когда ответ поиска пришел после того,
// как пользователь сменил запрос: устаревший результат отбрасывается
var ErrSuperseded = errors.New("search superseded by a newer query")

// ErrEmptyQuery возвращается на пустой поисковый запрос до обращения к серверу
var ErrEmptyQuery = errors.New("search query is empty")

// Client - HTTP клиент одной витрины каталога с кэшем страниц.
// Чтения идут через кэш: повторный запрос уже просмотренной страницы
// не порождает HTTP вызова
type Client struct {
	baseURL    string
	storefront Storefront
	httpClient *http.Client
	token      string
	cache      *PageCache
	searchSeq  atomic.Int64
}

// Option настраивает клиента при создании
type Option func(*Client)

// WithHTTPClient подменяет транспорт (таймауты, тесты)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken задает Bearer токен для операций, требующих аутентификации
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient создает клиента витрины
func NewClient(baseURL string, storefront Storefront, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		storefront: storefront,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      NewPageCache(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetToken обновляет Bearer токен (после логина или refresh)
func (c *Client) SetToken(token string) {
	c.token = token
}

// Cache возвращает кэш страниц клиента
func (c *Client) Cache() *PageCache {
	return c.cache
}

// List возвращает страницу витрины, из кэша при повторном просмотре
func (c *Client) List(ctx context.Context, page, limit int) (*Page, error) {
	if cached, ok := c.cache.GetPage(page); ok {
		return cached, nil
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	result, err := c.getPage(ctx, fmt.Sprintf("/%s?%s", c.storefront, q.Encode()))
	if err != nil {
		return nil, err
	}

	c.cache.PutPage(page, result)
	return result, nil
}

// Search возвращает страницу результатов поиска
// Устаревший ответ (запрос сменился за время вызова) отбрасывается
func (c *Client) Search(ctx context.Context, query string, page, limit int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if cached, ok := c.cache.GetSearchPage(query, page); ok {
		return cached, nil
	}

	seq := c.searchSeq.Add(1)

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	result, err := c.getPage(ctx, fmt.Sprintf("/%s/search?%s", c.storefront, q.Encode()))
	if err != nil {
		return nil, err
	}

	// Пока запрос летал, пользователь набрал новый текст
	if c.searchSeq.Load() != seq {
		return nil, ErrSuperseded
	}

	c.cache.PutSearchPage(query, page, result)
	return result, nil
}

// Filter возвращает страницу выдачи по категории (genre или item type)
func (c *Client) Filter(ctx context.Context, value string, page, limit int) (*Page, error) {
	if cached, ok := c.cache.GetFilterPage(value, page); ok {
		return cached, nil
	}

	param := "genre"
	if c.storefront == StorefrontClothing {
		param = "type"
	}

	q := url.Values{}
	q.Set(param, value)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	result, err := c.getPage(ctx, fmt.Sprintf("/%s/filter?%s", c.storefront, q.Encode()))
	if err != nil {
		return nil, err
	}

	c.cache.PutFilterPage(value, page, result)
	return result, nil
}

// Get возвращает полную карточку товара с отзывами и запоминает ее
// как открытую
func (c *Client) Get(ctx context.Context, id string) (*Product, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%s/%s", c.storefront, id), "", nil)
	if err != nil {
		return nil, err
	}

	product, err := decodeProduct(body)
	if err != nil {
		return nil, err
	}

	c.cache.SetCurrent(product)
	return product, nil
}

// CreateBook создает книгу (только для витрины книг, роль ADMIN)
// Успешное создание сбрасывает кэш: границы страниц сдвинулись
func (c *Client) CreateBook(ctx context.Context, params BookParams, images []ImageFile) (*Product, error) {
	if c.storefront != StorefrontBooks {
		return nil, fmt.Errorf("create book on %s storefront", c.storefront)
	}

	fields := map[string]string{
		"name":        params.Name,
		"price":       strconv.FormatFloat(params.Price, 'f', -1, 64),
		"genre":       params.Genre,
		"author":      params.Author,
		"publication": params.Publication,
		"isbn":        params.ISBN,
		"description": params.Description,
	}

	return c.createProduct(ctx, fields, images)
}

// CreateClothingItem создает предмет одежды (только для витрины одежды, роль ADMIN)
func (c *Client) CreateClothingItem(ctx context.Context, params ClothingParams, images []ImageFile) (*Product, error) {
	if c.storefront != StorefrontClothing {
		return nil, fmt.Errorf("create clothing item on %s storefront", c.storefront)
	}

	fields := map[string]string{
		"name":        params.Name,
		"price":       strconv.FormatFloat(params.Price, 'f', -1, 64),
		"item_type":   params.ItemType,
		"description": params.Description,
	}

	return c.createProduct(ctx, fields, images)
}

// Delete удаляет товар (роль ADMIN) и сбрасывает кэш
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/%s/%s", c.storefront, id), "", nil)
	if err != nil {
		return err
	}

	c.cache.Invalidate()
	return nil
}

// AddReview добавляет отзыв к товару и точечно патчит кэш:
// новый средний рейтинг берется у сервера, остальные страницы не трогаются
func (c *Client) AddReview(ctx context.Context, id string, rating int, comment string) (*Review, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%s/%s/reviews", c.storefront, id), "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var review Review
	if err := json.Unmarshal(body, &review); err != nil {
		return nil, fmt.Errorf("failed to decode review: %w", err)
	}

	// Авторитетное среднее после конкурентных отзывов знает только сервер
	_, average, err := c.GetReviews(ctx, id)
	if err != nil {
		return &review, nil
	}

	c.cache.ApplyReview(id, review, average)
	return &review, nil
}

// GetReviews возвращает отзывы товара и текущий средний рейтинг
func (c *Client) GetReviews(ctx context.Context, id string) ([]ReviewWithUser, float64, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/%s/%s/reviews", c.storefront, id), "", nil)
	if err != nil {
		return nil, 0, err
	}

	var resp struct {
		Success       bool             `json:"success"`
		Reviews       []ReviewWithUser `json:"reviews"`
		AverageRating float64          `json:"average_rating"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return resp.Reviews, resp.AverageRating, nil
}

// createProduct отправляет multipart форму с полями и файлами images
func (c *Client) createProduct(ctx context.Context, fields map[string]string, images []ImageFile) (*Product, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	for _, img := range images {
		part, err := writer.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("failed to write image: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/"+string(c.storefront), writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	product, err := decodeProduct(body)
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate()
	return product, nil
}

// getPage выполняет запрос страничной выдачи и разбирает конверт
func (c *Client) getPage(ctx context.Context, path string) (*Page, error) {
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	// Книжная витрина отвечает ключами books/total_books,
	// витрина одежды - items/total_items
	var envelope struct {
		Success     bool      `json:"success"`
		Books       []Product `json:"books"`
		Items       []Product `json:"items"`
		TotalBooks  int64     `json:"total_books"`
		TotalItems  int64     `json:"total_items"`
		TotalPages  int       `json:"total_pages"`
		CurrentPage int       `json:"current_page"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	page := &Page{
		Products:    envelope.Books,
		TotalItems:  envelope.TotalBooks,
		TotalPages:  envelope.TotalPages,
		CurrentPage: envelope.CurrentPage,
	}
	if c.storefront == StorefrontClothing {
		page.Products = envelope.Items
		page.TotalItems = envelope.TotalItems
	}
	if page.Products == nil {
		page.Products = []Product{}
	}

	return page, nil
}

// do выполняет HTTP запрос и возвращает тело успешного ответа
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp struct {
			Message string `json:"message"`
		}
		message := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			message = errResp.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	return data, nil
}

// decodeProduct разбирает конверт с одним товаром (ключ book или item)
func decodeProduct(body []byte) (*Product, error) {
	var envelope struct {
		Success bool     `json:"success"`
		Book    *Product `json:"book"`
		Item    *Product `json:"item"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	product := envelope.Book
	if product == nil {
		product = envelope.Item
	}
	if product == nil {
		return nil, fmt.Errorf("product missing in response")
	}

	return product, nil
}
