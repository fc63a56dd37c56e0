package service

import (
	"context"
	"sort"
	"sync"

	"maildash/internal/gmail"
	"maildash/internal/metrics"
	"maildash/internal/model"
	"maildash/internal/provider"
)

// chunkSize picks the per-chunk batch size: a quarter of the total, clamped
// to [minSize, maxSize]. This keeps wall-clock time roughly flat across
// small and large requests while bounding simultaneous outbound calls.
func chunkSize(total, minSize, maxSize int) int {
	size := (total + 3) / 4
	if size < minSize {
		size = minSize
	}
	if size > maxSize {
		size = maxSize
	}
	return size
}

// fetchBatch lists message IDs and retrieves each one's metadata with
// bounded concurrency. A failed item is dropped and logged, never aborting
// the batch; only a failure of the list call itself fails the operation.
func (s *emailService) fetchBatch(ctx context.Context, p provider.MailProvider, limit int64) ([]model.EmailSummary, error) {
	ids, err := p.ListMessageIDs(ctx, limit)
	if err != nil {
		return nil, provider.Wrap(err)
	}
	if len(ids) == 0 {
		return []model.EmailSummary{}, nil
	}

	size := chunkSize(len(ids), s.opts.FetchMinChunk, s.opts.FetchMaxChunk)
	fetchedAt := s.now()

	// Each message writes its own slot, so successful items keep a
	// deterministic order regardless of goroutine scheduling.
	slots := make([]*model.EmailSummary, len(ids))
	var wg sync.WaitGroup

	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}

		wg.Add(1)
		go func(offset int, chunk []string) {
			defer wg.Done()
			var cwg sync.WaitGroup
			for i, id := range chunk {
				cwg.Add(1)
				go func(slot int, id string) {
					defer cwg.Done()
					msg, err := p.GetMessage(ctx, id, provider.FormatMetadata)
					if err != nil {
						s.logger.Warn("dropping message from batch:", id, err)
						metrics.DroppedMessages.Inc()
						return
					}
					summary := gmail.NormalizeSummary(msg, fetchedAt)
					slots[slot] = &summary
				}(offset+i, id)
			}
			cwg.Wait()
		}(start, ids[start:end])
	}
	wg.Wait()

	results := make([]model.EmailSummary, 0, len(ids))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	sortSummaries(results)
	return results, nil
}

// sortSummaries orders newest first; summaries with an unparsable (zero)
// date sort after all valid dates, stable order otherwise.
func sortSummaries(items []model.EmailSummary) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Date, items[j].Date
		if di.IsZero() != dj.IsZero() {
			return !di.IsZero()
		}
		return di.After(dj)
	})
}
