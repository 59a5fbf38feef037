package tracker

import (
	"context"
	"sync"

	"github.com/shaiso/Reporta/internal/domain"
)

const (
	// defaultPageSize — размер страницы при полной выборке.
	defaultPageSize = 100

	// fetchBatchSize — количество параллельных запросов страниц в одном batch.
	fetchBatchSize = 10
)

// GetAll возвращает полный набор occurrences.
//
// Стратегия:
//  1. Запрашивается страница 0. Пустая → результат пустой.
//     Короткая (< pageSize) → других страниц нет, возвращается как есть.
//  2. Дальше страницы запрашиваются batch'ами по fetchBatchSize
//     параллельных запросов. Batch полностью дожидается всех ответов,
//     результаты добавляются строго в порядке возрастания номера страницы.
//  3. Ошибка страницы внутри batch считается концом данных: она не
//     всплывает наружу, страница трактуется как пустая, следующие batch'и
//     не запрашиваются. Короткая или пустая страница — тоже сигнал конца.
//
// Ошибка самой первой страницы — единственная, которая возвращается
// вызывающему: без неё нечего отдавать.
//
// Номер страницы строго растёт на каждой итерации, поэтому цикл всегда
// завершается, как только данные кончились.
func (c *Client) GetAll(ctx context.Context, token, statusFilter string) ([]domain.Occurrence, error) {
	size := defaultPageSize

	first, err := c.GetPage(ctx, token, 0, size, statusFilter)
	if err != nil {
		return nil, err
	}

	if len(first) == 0 {
		return []domain.Occurrence{}, nil
	}
	if len(first) < size {
		return first, nil
	}

	all := first
	next := 1

	for {
		// Параллельный batch: fetchBatchSize независимых запросов,
		// join по WaitGroup — барьер синхронизации batch'а.
		results := make([][]domain.Occurrence, fetchBatchSize)

		var wg sync.WaitGroup
		for i := 0; i < fetchBatchSize; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				page, err := c.GetPage(ctx, token, next+i, size, statusFilter)
				if err != nil {
					// Ошибка страницы = конец данных, не сбой выборки.
					c.logger.Warn("page fetch failed, treating as end of data",
						"page", next+i,
						"error", err,
					)
					return
				}
				results[i] = page
			}(i)
		}
		wg.Wait()

		done := false
		for _, page := range results {
			if len(page) == 0 {
				done = true
				break
			}
			all = append(all, page...)
			if len(page) < size {
				done = true
				break
			}
		}
		if done {
			break
		}

		next += fetchBatchSize
	}

	return all, nil
}
