package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yaron8/ksp-telemetry/telemetrics"
)

const sessionsKey = "telemetry:sessions"

// Config is read from the environment; Redis is disabled when Host is empty.
type Config struct {
	Host    string        `env:"REDIS_HOST"`
	Port    int           `env:"REDIS_PORT" envDefault:"6379"`
	TTL     time.Duration `env:"REDIS_TTL" envDefault:"24h"`
	MaxRows int64         `env:"REDIS_MAX_ROWS" envDefault:"1000"`
}

func (c Config) Enabled() bool {
	return c.Host != ""
}

func (c Config) NewClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password: "", // no password set
		DB:       0,  // use default DB
		Protocol: 2,
	})
}

// DAOTelemetry stores the rows of one logging session in Redis and reads
// back any session.
type DAOTelemetry struct {
	redisClient *redis.Client
	session     string
	ttl         time.Duration
	maxRows     int64
	columns     []string
}

func NewDAOTelemetry(redisClient *redis.Client, session string, ttl time.Duration, maxRows int64) *DAOTelemetry {
	return &DAOTelemetry{
		redisClient: redisClient,
		session:     session,
		ttl:         ttl,
		maxRows:     maxRows,
	}
}

func columnsKey(session string) string { return "telemetry:" + session + ":columns" }
func latestKey(session string) string  { return "telemetry:" + session + ":latest" }
func rowsKey(session string) string    { return "telemetry:" + session + ":rows" }

// Open registers the session and its columns.
func (dao *DAOTelemetry) Open(ctx context.Context, columns []string) error {
	dao.columns = append([]string(nil), columns...)

	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}

	pipe := dao.redisClient.TxPipeline()
	pipe.Del(ctx, columnsKey(dao.session), latestKey(dao.session), rowsKey(dao.session))
	if len(values) > 0 {
		pipe.RPush(ctx, columnsKey(dao.session), values...)
	}
	pipe.Expire(ctx, columnsKey(dao.session), dao.ttl)
	pipe.SAdd(ctx, sessionsKey, dao.session)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to register session %s: %w", dao.session, err)
	}
	return nil
}

// Write updates the latest hash and appends the row to the capped history.
func (dao *DAOTelemetry) Write(ctx context.Context, row telemetrics.Row) error {
	record := telemetrics.NewRecord(dao.session, dao.columns, row)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	latest := make(map[string]interface{}, len(dao.columns))
	for i, column := range dao.columns {
		if i < len(row.Values) {
			latest[column] = strconv.FormatFloat(row.Values[i], 'g', -1, 64)
		}
	}

	pipe := dao.redisClient.TxPipeline()
	if len(latest) > 0 {
		pipe.HSet(ctx, latestKey(dao.session), latest)
	}
	pipe.RPush(ctx, rowsKey(dao.session), data)
	if dao.maxRows > 0 {
		pipe.LTrim(ctx, rowsKey(dao.session), -dao.maxRows, -1)
	}
	pipe.Expire(ctx, latestKey(dao.session), dao.ttl)
	pipe.Expire(ctx, rowsKey(dao.session), dao.ttl)
	pipe.Expire(ctx, columnsKey(dao.session), dao.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Close leaves the data in place; the client is owned by the caller.
func (dao *DAOTelemetry) Close() error {
	return nil
}

func (dao *DAOTelemetry) Session() string {
	return dao.session
}

// Sessions lists every session that still has columns stored.
func (dao *DAOTelemetry) Sessions(ctx context.Context) ([]string, error) {
	members, err := dao.redisClient.SMembers(ctx, sessionsKey).Result()
	if err != nil {
		return nil, err
	}

	live := make([]string, 0, len(members))
	for _, session := range members {
		n, err := dao.redisClient.Exists(ctx, columnsKey(session)).Result()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			live = append(live, session)
		}
	}
	return live, nil
}

// GetColumns returns the column names of a session.
func (dao *DAOTelemetry) GetColumns(ctx context.Context, session string) ([]string, error) {
	return dao.redisClient.LRange(ctx, columnsKey(session), 0, -1).Result()
}

// GetLatest returns the newest value of every column of a session.
func (dao *DAOTelemetry) GetLatest(ctx context.Context, session string) (map[string]float64, error) {
	fields, err := dao.redisClient.HGetAll(ctx, latestKey(session)).Result()
	if err != nil {
		return nil, err
	}

	latest := make(map[string]float64, len(fields))
	for column, raw := range fields {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", column, err)
		}
		latest[column] = v
	}
	return latest, nil
}

// GetRows returns up to n of the newest rows of a session, oldest first.
func (dao *DAOTelemetry) GetRows(ctx context.Context, session string, n int64) ([]telemetrics.Record, error) {
	if n <= 0 {
		return nil, nil
	}

	raw, err := dao.redisClient.LRange(ctx, rowsKey(session), -n, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]telemetrics.Record, 0, len(raw))
	for _, item := range raw {
		var record telemetrics.Record
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("invalid row in %s: %w", rowsKey(session), err)
		}
		records = append(records, record)
	}
	return records, nil
}
