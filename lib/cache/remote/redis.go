package remote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib/cache"
)

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// redisCommands is the part of *redis.Client we use.
type redisCommands interface {
	Get(key string) *redis.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping() *redis.StatusCmd
}

func NewRedisClient(conf RedisConfig) cache.Client {
	return newRedisClient(redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	}), conf)
}

func newRedisClient(cmds redisCommands, conf RedisConfig) *redisClient {
	return &redisClient{
		cmds:      cmds,
		keyPrefix: conf.KeyPrefix,
		ttl:       conf.TTL,
	}
}

type redisClient struct {
	cmds      redisCommands
	keyPrefix string
	ttl       time.Duration
}

func (r *redisClient) key(sentence string) string {
	return r.keyPrefix + sentence
}

func (r *redisClient) Get(sentence string) ([]lib.Token, bool, error) {
	b, err := r.cmds.Get(r.key(sentence)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var tokens []lib.Token
	if err := json.Unmarshal(b, &tokens); err != nil {
		return nil, false, err
	}
	if tokens == nil {
		tokens = []lib.Token{}
	}
	return tokens, true, nil
}

func (r *redisClient) Set(sentence string, tokens []lib.Token) error {
	if tokens == nil {
		tokens = []lib.Token{}
	}
	b, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return r.cmds.Set(r.key(sentence), b, r.ttl).Err()
}

func (r *redisClient) Ready() bool {
	return r.cmds.Ping().Err() == nil
}
