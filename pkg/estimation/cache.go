package estimation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/duit-aim/vcz-estimator/pkg/common/logger"
	"github.com/duit-aim/vcz-estimator/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// ResultCache memoizes estimation results in Redis. The pipeline is
// deterministic for a fixed model pair, so identical covariates always map
// to the same result. Cache failures degrade to recomputation.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Key derives a deterministic cache key from the covariates and the loaded
// model pair. The model version is part of the key so a redeploy never
// serves results from the previous artifacts.
func (c *ResultCache) Key(cov models.PatientCovariates, modelVersion string) string {
	payload, _ := json.Marshal(cov)
	digest := sha256.Sum256(payload)
	return fmt.Sprintf("vcz:estimate:%s:%s", modelVersion, hex.EncodeToString(digest[:16]))
}

func (c *ResultCache) Get(ctx context.Context, key string) (models.EstimationResult, bool) {
	var result models.EstimationResult
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Debug("Result cache read failed")
		}
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Log.WithError(err).Warn("Discarding corrupt cache entry")
		return models.EstimationResult{}, false
	}
	return result, true
}

func (c *ResultCache) Set(ctx context.Context, key string, result models.EstimationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Debug("Result cache write failed")
	}
}
