package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
)

// pageServer отдаёт страницы по правилам pages: количество записей
// или HTTP-ошибка. Отсутствующая страница — пустая.
type pageDef struct {
	count  int
	status int // != 0 — ответить этим HTTP-статусом
}

func newPageServer(t *testing.T, pages map[int]pageDef) (*httptest.Server, *sync.Map) {
	t.Helper()

	var requested sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			t.Errorf("bad page param: %v", err)
		}
		requested.Store(page, true)

		def := pages[page]
		if def.status != 0 {
			w.WriteHeader(def.status)
			return
		}

		occurrences := make([]domain.Occurrence, def.count)
		for i := range occurrences {
			occurrences[i] = domain.Occurrence{
				// ID кодирует (страница, позиция) для проверки порядка.
				ID:          int64(page*defaultPageSize + i),
				Number:      int64(i),
				Title:       fmt.Sprintf("page %d item %d", page, i),
				Status:      "OPEN",
				CreatedDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			}
		}
		json.NewEncoder(w).Encode(occurrences)
	}))
	return srv, &requested
}

func fullPages(n int) map[int]pageDef {
	pages := make(map[int]pageDef, n)
	for i := 0; i < n; i++ {
		pages[i] = pageDef{count: defaultPageSize}
	}
	return pages
}

func TestGetAllSinglePage(t *testing.T) {
	srv, _ := newPageServer(t, map[int]pageDef{0: {count: 5}})
	defer srv.Close()

	c := newTestClient("", srv.URL)

	all, err := c.GetAll(context.Background(), "tok", "")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("got %d records, want 5", len(all))
	}
}

func TestGetAllEmpty(t *testing.T) {
	srv, _ := newPageServer(t, map[int]pageDef{})
	defer srv.Close()

	c := newTestClient("", srv.URL)

	all, err := c.GetAll(context.Background(), "tok", "")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d records, want 0", len(all))
	}
}

// Полная страница 0 и пустая страница 1: ровно pageSize записей.
func TestGetAllExactlyOneFullPage(t *testing.T) {
	srv, _ := newPageServer(t, map[int]pageDef{0: {count: defaultPageSize}})
	defer srv.Close()

	c := newTestClient("", srv.URL)

	all, err := c.GetAll(context.Background(), "tok", "")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != defaultPageSize {
		t.Errorf("got %d records, want %d", len(all), defaultPageSize)
	}
}

func TestGetAllFirstPageError(t *testing.T) {
	srv, _ := newPageServer(t, map[int]pageDef{0: {status: http.StatusInternalServerError}})
	defer srv.Close()

	c := newTestClient("", srv.URL)

	if _, err := c.GetAll(context.Background(), "tok", ""); err == nil {
		t.Fatal("GetAll() error = nil, want first page error")
	}
}

func TestGetAllMultipleBatches(t *testing.T) {
	// Страницы 0-12 полные, 13 короткая: 13*pageSize + 7 записей.
	pages := fullPages(13)
	pages[13] = pageDef{count: 7}
	srv, _ := newPageServer(t, pages)
	defer srv.Close()

	c := newTestClient("", srv.URL)

	all, err := c.GetAll(context.Background(), "tok", "")
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	want := 13*defaultPageSize + 7
	if len(all) != want {
		t.Fatalf("got %d records, want %d", len(all), want)
	}

	// Порядок страниц сохраняется несмотря на параллельную выборку.
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Fatalf("ordering broken at %d: %d after %d", i, all[i].ID, all[i-1].ID)
		}
	}
}

// Ошибка страницы внутри второго batch: наружу не всплывает,
// результат — конкатенация страниц до batch с ошибкой включительно
// только в части до сбойной страницы.
func TestGetAllBatchErrorTreatedAsEndOfData(t *testing.T) {
	// Страница 0 + batch 1-10 полные; страница 11 (начало второго batch)
	// падает, остальные его страницы полные.
	pages := fullPages(21)
	pages[11] = pageDef{status: http.StatusBadGateway}
	srv, requested := newPageServer(t, pages)
	defer srv.Close()

	c := newTestClient("", srv.URL)

	all, err := c.GetAll(context.Background(), "tok", "")
	if err != nil {
		t.Fatalf("GetAll() error = %v, batch errors must be swallowed", err)
	}

	want := 11 * defaultPageSize // страницы 0-10
	if len(all) != want {
		t.Fatalf("got %d records, want %d", len(all), want)
	}

	// Третий batch (страницы 21+) не запрашивался.
	if _, ok := requested.Load(21); ok {
		t.Error("batch after the failed one was requested")
	}
}
