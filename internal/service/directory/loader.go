package directory

import (
	"context"
	"fmt"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/teamqueries/internal/domain"
)

// Resolve returns the user with id. Lookups issued within the same short
// window share one directory fetch and results are cached until the next
// Refresh or mutation of that user. Failures are not cached.
func (s *Service) Resolve(ctx context.Context, id string) (domain.User, error) {
	u, err := s.byID.Load(ctx, id)()
	if err != nil {
		s.byID.Clear(ctx, id)
		return domain.User{}, fmt.Errorf("directory.Resolve %s: %w", id, err)
	}
	return u, nil
}

// ResolveMany resolves ids in one batch. The result keeps the order of ids;
// the first failure is returned.
func (s *Service) ResolveMany(ctx context.Context, ids []string) ([]domain.User, error) {
	users, errs := s.byID.LoadMany(ctx, ids)()
	var first error
	for i, err := range errs {
		if err == nil {
			continue
		}
		s.byID.Clear(ctx, ids[i])
		if first == nil {
			first = fmt.Errorf("directory.ResolveMany %s: %w", ids[i], err)
		}
	}
	if first != nil {
		return nil, first
	}
	return users, nil
}

func (s *Service) batchUsers(ctx context.Context, keys []string) []*dataloader.Result[domain.User] {
	users, err := s.api.FetchUsers(ctx)
	if err != nil {
		return errorResults[domain.User](len(keys), err)
	}
	s.replace(users)

	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return mapResults(keys, byID)
}

// errorResults creates n results that all carry err.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps found values back to key order; missing keys get
// domain.ErrNotFound.
func mapResults[V any](keys []string, found map[string]V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := found[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Error: domain.ErrNotFound}
		}
	}
	return results
}
