package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"mrp-service/internal/ingest"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheStats estadísticas del caché
type CacheStats struct {
	Hits          int64
	Misses        int64
	TotalRequests int64
	TotalKeys     int
}

// ReferenceCache implementa caché multi-nivel para el archivo auxiliar
// (maestro de materiales + clusters de depósitos). La clave incluye la fecha
// de modificación del archivo: si el auxiliar cambia en disco, la próxima
// corrida lo relee.
type ReferenceCache struct {
	path          string
	materialSheet string
	storeSheet    string

	// L1 Cache: memoria local (más rápido)
	l1Mutex   sync.RWMutex
	l1Ref     *ingest.Reference
	l1ModTime time.Time

	// L2 Cache: Redis (compartido entre réplicas); puede ser nil
	redisClient *redis.Client
	ttl         time.Duration

	logger *zap.Logger

	// Estadísticas
	statsMutex sync.RWMutex
	hits       int64
	misses     int64
}

// NewReferenceCache crea una nueva instancia del caché
func NewReferenceCache(redisClient *redis.Client, path, materialSheet, storeSheet string, ttl time.Duration, logger *zap.Logger) *ReferenceCache {
	return &ReferenceCache{
		path:          path,
		materialSheet: materialSheet,
		storeSheet:    storeSheet,
		redisClient:   redisClient,
		ttl:           ttl,
		logger:        logger,
	}
}

// Reference retorna el contenido del auxiliar, cargándolo de disco solo
// cuando ningún nivel del caché lo tiene vigente.
func (rc *ReferenceCache) Reference(ctx context.Context) (*ingest.Reference, error) {
	start := time.Now()

	info, err := os.Stat(rc.path)
	if err != nil {
		// Sin stat no hay clave de versión: se delega el error descriptivo
		// al loader.
		rc.recordMiss()
		return ingest.LoadReference(rc.path, rc.materialSheet, rc.storeSheet)
	}
	modTime := info.ModTime()

	// 1. L1 Cache (memoria local)
	if ref := rc.getFromL1(modTime); ref != nil {
		rc.recordHit()
		rc.logger.Debug("L1 cache hit",
			zap.String("path", rc.path),
			zap.Duration("latency", time.Since(start)))
		return ref, nil
	}

	// 2. L2 Cache (Redis)
	if ref, err := rc.getFromL2(ctx, modTime); err == nil && ref != nil {
		rc.setToL1(ref, modTime)
		rc.recordHit()
		rc.logger.Debug("L2 cache hit",
			zap.String("path", rc.path),
			zap.Duration("latency", time.Since(start)))
		return ref, nil
	}

	// 3. Disco (excelize)
	rc.recordMiss()
	ref, err := ingest.LoadReference(rc.path, rc.materialSheet, rc.storeSheet)
	if err != nil {
		return nil, err
	}

	rc.setToL1(ref, modTime)
	if err := rc.setToL2(ctx, ref, modTime); err != nil {
		rc.logger.Debug("No se pudo guardar el auxiliar en Redis", zap.Error(err))
	}

	rc.logger.Debug("Cache miss, auxiliar releído de disco",
		zap.String("path", rc.path),
		zap.Int("materiales", len(ref.Materials)),
		zap.Int("clusters", len(ref.Clusters)),
		zap.Duration("latency", time.Since(start)))
	return ref, nil
}

// Invalidate descarta el auxiliar de ambos niveles de caché
func (rc *ReferenceCache) Invalidate(ctx context.Context) error {
	rc.l1Mutex.Lock()
	rc.l1Ref = nil
	rc.l1Mutex.Unlock()

	if rc.redisClient == nil {
		return nil
	}
	iter := rc.redisClient.Scan(ctx, 0, "reference:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := rc.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// GetStats retorna estadísticas del caché
func (rc *ReferenceCache) GetStats() CacheStats {
	rc.statsMutex.RLock()
	defer rc.statsMutex.RUnlock()

	rc.l1Mutex.RLock()
	totalKeys := 0
	if rc.l1Ref != nil {
		totalKeys = 1
	}
	rc.l1Mutex.RUnlock()

	return CacheStats{
		Hits:          rc.hits,
		Misses:        rc.misses,
		TotalRequests: rc.hits + rc.misses,
		TotalKeys:     totalKeys,
	}
}

func (rc *ReferenceCache) recordHit() {
	rc.statsMutex.Lock()
	rc.hits++
	rc.statsMutex.Unlock()
}

func (rc *ReferenceCache) recordMiss() {
	rc.statsMutex.Lock()
	rc.misses++
	rc.statsMutex.Unlock()
}

func (rc *ReferenceCache) getFromL1(modTime time.Time) *ingest.Reference {
	rc.l1Mutex.RLock()
	defer rc.l1Mutex.RUnlock()
	if rc.l1Ref == nil || !rc.l1ModTime.Equal(modTime) {
		return nil
	}
	return rc.l1Ref
}

func (rc *ReferenceCache) setToL1(ref *ingest.Reference, modTime time.Time) {
	rc.l1Mutex.Lock()
	defer rc.l1Mutex.Unlock()
	rc.l1Ref = ref
	rc.l1ModTime = modTime
}

func (rc *ReferenceCache) getFromL2(ctx context.Context, modTime time.Time) (*ingest.Reference, error) {
	if rc.redisClient == nil {
		return nil, fmt.Errorf("redis no disponible")
	}

	data, err := rc.redisClient.Get(ctx, rc.l2Key(modTime)).Result()
	if err != nil {
		return nil, err
	}

	var ref ingest.Reference
	if err := json.Unmarshal([]byte(data), &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (rc *ReferenceCache) setToL2(ctx context.Context, ref *ingest.Reference, modTime time.Time) error {
	if rc.redisClient == nil {
		return nil
	}

	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	return rc.redisClient.Set(ctx, rc.l2Key(modTime), data, rc.ttl).Err()
}

func (rc *ReferenceCache) l2Key(modTime time.Time) string {
	return fmt.Sprintf("reference:%d", modTime.Unix())
}
