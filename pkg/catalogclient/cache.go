package catalogclient

import "sync"

// PageCache хранит просмотренные страницы каталога на стороне клиента.
// Три контекста взаимно исключительны с точки зрения UI: обычная выдача,
// активный поиск и активный фильтр. Любое создание или удаление товара
// сбрасывает кэш целиком: количество элементов и границы страниц сдвигаются
type PageCache struct {
	mu sync.Mutex

	pages map[int]*Page // контекст обычной выдачи

	searchQuery string
	searchPages map[int]*Page

	filterValue string
	filterPages map[int]*Page

	current *Product // открытая карточка товара
}

// NewPageCache создает пустой кэш страниц
func NewPageCache() *PageCache {
	return &PageCache{
		pages:       make(map[int]*Page),
		searchPages: make(map[int]*Page),
		filterPages: make(map[int]*Page),
	}
}

// GetPage возвращает страницу обычной выдачи, если она уже просматривалась
func (c *PageCache) GetPage(page int) (*Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pages[page]
	return p, ok
}

// PutPage запоминает страницу обычной выдачи
func (c *PageCache) PutPage(page int, p *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pages[page] = p
}

// GetSearchPage возвращает страницу результатов поиска
// Попадание возможно только для текущего поискового запроса
func (c *PageCache) GetSearchPage(query string, page int) (*Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if query != c.searchQuery {
		return nil, false
	}
	p, ok := c.searchPages[page]
	return p, ok
}

// PutSearchPage запоминает страницу результатов поиска
// Новый запрос вытесняет результаты предыдущего и снимает активный фильтр
func (c *PageCache) PutSearchPage(query string, page int, p *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if query != c.searchQuery {
		c.searchQuery = query
		c.searchPages = make(map[int]*Page)
	}
	c.filterValue = ""
	c.filterPages = make(map[int]*Page)

	c.searchPages[page] = p
}

// GetFilterPage возвращает страницу отфильтрованной выдачи
func (c *PageCache) GetFilterPage(value string, page int) (*Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value != c.filterValue {
		return nil, false
	}
	p, ok := c.filterPages[page]
	return p, ok
}

// PutFilterPage запоминает страницу отфильтрованной выдачи
// Новый фильтр вытесняет предыдущий и снимает активный поиск
func (c *PageCache) PutFilterPage(value string, page int, p *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value != c.filterValue {
		c.filterValue = value
		c.filterPages = make(map[int]*Page)
	}
	c.searchQuery = ""
	c.searchPages = make(map[int]*Page)

	c.filterPages[page] = p
}

// SetCurrent запоминает открытую карточку товара
func (c *PageCache) SetCurrent(p *Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = p
}

// Current возвращает открытую карточку товара
func (c *PageCache) Current() (*Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, false
	}
	return c.current, true
}

// Invalidate сбрасывает все контексты кэша
// Вызывается после любого создания или удаления товара
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pages = make(map[int]*Page)
	c.searchQuery = ""
	c.searchPages = make(map[int]*Page)
	c.filterValue = ""
	c.filterPages = make(map[int]*Page)
	c.current = nil
}

// ApplyReview точечно патчит товар во всех контекстах, где он закэширован:
// отзыв добавляется в начало списка, средний рейтинг обновляется.
// Остальные закэшированные страницы не затрагиваются
func (c *PageCache) ApplyReview(productID string, review Review, averageRating float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	patched := ReviewWithUser{Review: review}

	patchPages := func(pages map[int]*Page) {
		for _, page := range pages {
			for i := range page.Products {
				if page.Products[i].ID == productID {
					page.Products[i].Reviews = append([]ReviewWithUser{patched}, page.Products[i].Reviews...)
					page.Products[i].AverageRating = averageRating
				}
			}
		}
	}

	patchPages(c.pages)
	patchPages(c.searchPages)
	patchPages(c.filterPages)

	if c.current != nil && c.current.ID == productID {
		c.current.Reviews = append([]ReviewWithUser{patched}, c.current.Reviews...)
		c.current.AverageRating = averageRating
	}
}
