package remote

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gitlab.mdcatapult.io/informatics/software-engineering/dictionary-form/lib"
)

type mockRedis struct {
	mock.Mock
}

func (m *mockRedis) Get(key string) *redis.StringCmd {
	return m.Called(key).Get(0).(*redis.StringCmd)
}

func (m *mockRedis) Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return m.Called(key, value, expiration).Get(0).(*redis.StatusCmd)
}

func (m *mockRedis) Ping() *redis.StatusCmd {
	return m.Called().Get(0).(*redis.StatusCmd)
}

type redisSuite struct {
	suite.Suite
	cmds   *mockRedis
	client *redisClient
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(redisSuite))
}

func (s *redisSuite) SetupTest() {
	s.cmds = &mockRedis{}
	s.client = newRedisClient(s.cmds, RedisConfig{KeyPrefix: "jishokei:", TTL: time.Hour})
}

func (s *redisSuite) TearDownTest() {
	s.cmds.AssertExpectations(s.T())
}

func (s *redisSuite) TestGetHit() {
	s.cmds.On("Get", "jishokei:食べた").Return(redis.NewStringResult(`[{"surface":"食べ","jishokei":"食べる","start":0,"end":2}]`, nil))

	tokens, found, err := s.client.Get("食べた")

	s.NoError(err)
	s.True(found)
	s.Equal([]lib.Token{{Surface: "食べ", DictionaryForm: "食べる", Start: 0, End: 2}}, tokens)
}

func (s *redisSuite) TestGetMiss() {
	s.cmds.On("Get", "jishokei:食べた").Return(redis.NewStringResult("", redis.Nil))

	tokens, found, err := s.client.Get("食べた")

	s.NoError(err)
	s.False(found)
	s.Nil(tokens)
}

func (s *redisSuite) TestGetBackendError() {
	s.cmds.On("Get", "jishokei:食べた").Return(redis.NewStringResult("", errors.New("connection refused")))

	_, found, err := s.client.Get("食べた")

	s.Error(err)
	s.False(found)
}

func (s *redisSuite) TestGetCorruptValue() {
	s.cmds.On("Get", "jishokei:食べた").Return(redis.NewStringResult("not json", nil))

	_, found, err := s.client.Get("食べた")

	s.Error(err)
	s.False(found)
}

func (s *redisSuite) TestSet() {
	s.cmds.On("Set", "jishokei:食べた", []byte(`[{"surface":"食べ","jishokei":"食べる","start":0,"end":2}]`), time.Hour).
		Return(redis.NewStatusResult("OK", nil))

	err := s.client.Set("食べた", []lib.Token{{Surface: "食べ", DictionaryForm: "食べる", Start: 0, End: 2}})

	s.NoError(err)
}

func (s *redisSuite) TestSetNilTokensStoresEmptyList() {
	s.cmds.On("Set", "jishokei:", []byte(`[]`), time.Hour).Return(redis.NewStatusResult("OK", nil))

	s.NoError(s.client.Set("", nil))
}

func (s *redisSuite) TestReady() {
	s.cmds.On("Ping").Return(redis.NewStatusResult("PONG", nil)).Once()
	s.cmds.On("Ping").Return(redis.NewStatusResult("", errors.New("down"))).Once()

	s.True(s.client.Ready())
	s.False(s.client.Ready())
}
