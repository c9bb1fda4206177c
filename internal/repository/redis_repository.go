package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/segyhp/autoorder-engine/internal/domain"
	customError "github.com/segyhp/autoorder-engine/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// Redis keys. Schedules and suppliers are hashes of JSON documents keyed by
// id; orders are a capped list, newest first.
const (
	redisSchedulesKey = "autoorder:schedules"
	redisOrdersKey    = "autoorder:orders"
	redisSuppliersKey = "autoorder:suppliers"
)

type redisScheduleRepository struct {
	client *redis.Client
}

func NewRedisScheduleRepository(client *redis.Client) ScheduleRepository {
	return &redisScheduleRepository{client: client}
}

func (r *redisScheduleRepository) List(ctx context.Context) ([]*domain.Schedule, error) {
	raw, err := r.client.HGetAll(ctx, redisSchedulesKey).Result()
	if err != nil {
		return nil, err
	}

	schedules := make([]*domain.Schedule, 0, len(raw))
	for id, doc := range raw {
		var schedule domain.Schedule
		if err := json.Unmarshal([]byte(doc), &schedule); err != nil {
			return nil, fmt.Errorf("decode schedule %s: %w", id, err)
		}
		schedules = append(schedules, &schedule)
	}

	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].NextRunAt.Equal(schedules[j].NextRunAt) {
			return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
		}
		return schedules[i].NextRunAt.Before(schedules[j].NextRunAt)
	})

	return schedules, nil
}

func (r *redisScheduleRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	doc, err := r.client.HGet(ctx, redisSchedulesKey, id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, customError.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}

	var schedule domain.Schedule
	if err := json.Unmarshal([]byte(doc), &schedule); err != nil {
		return nil, fmt.Errorf("decode schedule %s: %w", id, err)
	}

	return &schedule, nil
}

func (r *redisScheduleRepository) Upsert(ctx context.Context, schedule *domain.Schedule) error {
	doc, err := json.Marshal(schedule)
	if err != nil {
		return err
	}

	return r.client.HSet(ctx, redisSchedulesKey, schedule.ID.String(), doc).Err()
}

func (r *redisScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := r.client.HDel(ctx, redisSchedulesKey, id.String()).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return customError.ErrScheduleNotFound
	}

	return nil
}

type redisOrderRepository struct {
	client *redis.Client
	limit  int
}

// NewRedisOrderRepository keeps at most limit orders; older ones are trimmed
// on every append.
func NewRedisOrderRepository(client *redis.Client, limit int) OrderRepository {
	return &redisOrderRepository{client: client, limit: limit}
}

func (r *redisOrderRepository) Create(ctx context.Context, order *domain.GeneratedOrder) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, redisOrdersKey, doc)
		pipe.LTrim(ctx, redisOrdersKey, 0, int64(r.limit-1))
		return nil
	})

	return err
}

func (r *redisOrderRepository) List(ctx context.Context, limit int) ([]*domain.GeneratedOrder, error) {
	// LRANGE 0 -1 is the whole list
	if limit <= 0 {
		return []*domain.GeneratedOrder{}, nil
	}

	docs, err := r.client.LRange(ctx, redisOrdersKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.GeneratedOrder, 0, len(docs))
	for _, doc := range docs {
		var order domain.GeneratedOrder
		if err := json.Unmarshal([]byte(doc), &order); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, &order)
	}

	return orders, nil
}

func (r *redisOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	docs, err := r.client.LRange(ctx, redisOrdersKey, 0, -1).Result()
	if err != nil {
		return err
	}

	for _, doc := range docs {
		var order domain.GeneratedOrder
		if err := json.Unmarshal([]byte(doc), &order); err != nil {
			continue
		}
		if order.ID == id {
			return r.client.LRem(ctx, redisOrdersKey, 1, doc).Err()
		}
	}

	return nil
}

type redisSupplierRepository struct {
	client *redis.Client
}

func NewRedisSupplierRepository(client *redis.Client) SupplierRepository {
	return &redisSupplierRepository{client: client}
}

func (r *redisSupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	doc, err := r.client.HGet(ctx, redisSuppliersKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, customError.ErrSupplierNotFound
	}
	if err != nil {
		return nil, err
	}

	var supplier domain.Supplier
	if err := json.Unmarshal([]byte(doc), &supplier); err != nil {
		return nil, fmt.Errorf("decode supplier %s: %w", id, err)
	}

	return &supplier, nil
}

func (r *redisSupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	raw, err := r.client.HGetAll(ctx, redisSuppliersKey).Result()
	if err != nil {
		return nil, err
	}

	suppliers := make([]*domain.Supplier, 0, len(raw))
	for id, doc := range raw {
		var supplier domain.Supplier
		if err := json.Unmarshal([]byte(doc), &supplier); err != nil {
			return nil, fmt.Errorf("decode supplier %s: %w", id, err)
		}
		suppliers = append(suppliers, &supplier)
	}

	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })

	return suppliers, nil
}
