// Package redis guarda las alertas activas en Redis con TTL, compartidas entre instancias.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Finanzas-api/internal/domain"
	"github.com/jhoicas/Finanzas-api/internal/domain/entity"
	"github.com/jhoicas/Finanzas-api/internal/domain/repository"
)

var _ repository.ActiveAlertStore = (*ActiveAlertStore)(nil)

const defaultKeyPrefix = "finanzas:alerts:"

// Config conexión a Redis.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ActiveAlertStore una clave por alerta: <prefix><company>:<id>, con el TTL de la ventana de la regla.
type ActiveAlertStore struct {
	client    *goredis.Client
	keyPrefix string
}

// NewActiveAlertStore conecta y verifica con PING.
func NewActiveAlertStore(ctx context.Context, cfg Config) (*ActiveAlertStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return NewActiveAlertStoreWithClient(client, ""), nil
}

// NewActiveAlertStoreWithClient usa un cliente existente (tests o cliente compartido).
func NewActiveAlertStoreWithClient(client *goredis.Client, keyPrefix string) *ActiveAlertStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &ActiveAlertStore{client: client, keyPrefix: keyPrefix}
}

func (s *ActiveAlertStore) key(companyID, id string) string {
	return s.keyPrefix + companyID + ":" + id
}

// Save reemplaza cada alerta por su clave y reinicia su TTL.
func (s *ActiveAlertStore) Save(ctx context.Context, alerts []entity.ActiveAlert, ttl time.Duration) error {
	if len(alerts) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, a := range alerts {
		raw, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("serializar alerta %s: %w", a.ID, err)
		}
		pipe.Set(ctx, s.key(a.CompanyID, a.ID), raw, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.StoreError("save active alerts", err)
	}
	return nil
}

// List alertas vigentes de la empresa; las expiradas ya no existen en Redis.
func (s *ActiveAlertStore) List(ctx context.Context, companyID string) ([]entity.ActiveAlert, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.keyPrefix+companyID+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, domain.StoreError("scan active alerts", err)
	}
	out := make([]entity.ActiveAlert, 0, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.StoreError("get active alerts", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // expiró entre SCAN y MGET
		}
		var a entity.ActiveAlert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("leer alerta: %w", err)
		}
		out = append(out, a)
	}
	entity.SortActiveAlerts(out)
	return out, nil
}

// Acknowledge marca la alerta conservando su TTL.
func (s *ActiveAlertStore) Acknowledge(ctx context.Context, companyID, id string) (bool, error) {
	key := s.key(companyID, id)
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, domain.StoreError("get active alert", err)
	}
	var a entity.ActiveAlert
	if err := json.Unmarshal(raw, &a); err != nil {
		return false, fmt.Errorf("leer alerta: %w", err)
	}
	a.Acknowledged = true
	updated, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("serializar alerta %s: %w", id, err)
	}
	// XX: si expiró entre GET y SET no se resucita.
	err = s.client.SetArgs(ctx, key, updated, goredis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, domain.StoreError("acknowledge active alert", err)
	}
	return true, nil
}

// Dismiss borra la alerta antes de que expire.
func (s *ActiveAlertStore) Dismiss(ctx context.Context, companyID, id string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(companyID, id)).Result()
	if err != nil {
		return false, domain.StoreError("dismiss active alert", err)
	}
	return n > 0, nil
}

// Close cierra el cliente.
func (s *ActiveAlertStore) Close() error {
	return s.client.Close()
}
