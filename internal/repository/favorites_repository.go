package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const favoritesChannel = "favorites:changes"

// FavoriteChange describes a membership change broadcast to other clients of
// the same scope. Subscribing is optional; writes never depend on it.
type FavoriteChange struct {
	Scope     string `json:"scope"`
	TeacherID string `json:"teacher_id"`
	Favorite  bool   `json:"favorite"`
}

// FavoritesRepository stores favorite teacher ids as Redis sets, one set per
// identity scope. Unauthenticated visitors share the anonymous scope.
type FavoritesRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewFavoritesRepository constructs a FavoritesRepository.
func NewFavoritesRepository(client *redis.Client, logger *zap.Logger) *FavoritesRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoritesRepository{client: client, logger: logger}
}

func favoritesKey(scope string) string {
	return "favorites:" + scope
}

// IsFavorite reports set membership for the scope.
func (r *FavoritesRepository) IsFavorite(ctx context.Context, scope, teacherID string) (bool, error) {
	member, err := r.client.SIsMember(ctx, favoritesKey(scope), teacherID).Result()
	if err != nil {
		return false, fmt.Errorf("check favorite %s: %w", teacherID, err)
	}
	return member, nil
}

// Toggle flips membership and returns the new state.
func (r *FavoritesRepository) Toggle(ctx context.Context, scope, teacherID string) (bool, error) {
	key := favoritesKey(scope)

	removed, err := r.client.SRem(ctx, key, teacherID).Result()
	if err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", teacherID, err)
	}

	favorite := false
	if removed == 0 {
		if err := r.client.SAdd(ctx, key, teacherID).Err(); err != nil {
			return false, fmt.Errorf("toggle favorite %s: %w", teacherID, err)
		}
		favorite = true
	}

	r.publish(ctx, FavoriteChange{Scope: scope, TeacherID: teacherID, Favorite: favorite})
	return favorite, nil
}

// List returns all favorite ids for the scope in stable order.
func (r *FavoritesRepository) List(ctx context.Context, scope string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, favoritesKey(scope)).Result()
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Subscribe delivers change events for a scope until ctx is done. It is the
// cross-client counterpart of a browser storage-change listener.
func (r *FavoritesRepository) Subscribe(ctx context.Context, scope string) (<-chan FavoriteChange, error) {
	sub := r.client.Subscribe(ctx, favoritesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe favorites: %w", err)
	}

	out := make(chan FavoriteChange)
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var change FavoriteChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					r.logger.Warn("malformed favorites event", zap.Error(err))
					continue
				}
				if change.Scope != scope {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *FavoritesRepository) publish(ctx context.Context, change FavoriteChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		return
	}
	if err := r.client.Publish(ctx, favoritesChannel, payload).Err(); err != nil {
		r.logger.Warn("failed to publish favorites event", zap.Error(err))
	}
}
