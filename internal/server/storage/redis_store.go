package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	roomKeyPrefix    = "room:"
	historyKeyPrefix = "history:"

	// 房间数据过期时间
	roomExpiration = 2 * time.Hour

	// 每个身份最多保留的历史房间数
	historyLimit = 20
)

// 房间持久化状态
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// RoomData 房间数据（用于 Redis 序列化）。
// GameState 是引擎的不透明快照，要求能完整重建引擎状态
type RoomData struct {
	Code             string          `json:"code"`
	Status           string          `json:"status"`
	Players          []PlayerData    `json:"players"`
	LockedIdentities []string        `json:"locked_identities,omitempty"`
	GameState        json.RawMessage `json:"game_state,omitempty"`
	CreatedAt        int64           `json:"created_at"`
	UpdatedAt        int64           `json:"updated_at"`
}

// PlayerData 玩家数据
type PlayerData struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Avatar    int    `json:"avatar"`
	Connected bool   `json:"connected"`
}

// RedisStore Redis 存储。
// 持久化是尽力而为的协作方：写入失败只记日志，绝不影响内存中的对局
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- 房间存储 ---

// SaveRoom 保存房间到 Redis
func (rs *RedisStore) SaveRoom(ctx context.Context, code string, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	key := roomKeyPrefix + code
	return rs.client.Set(ctx, key, jsonData, roomExpiration).Err()
}

// LoadRoom 从 Redis 加载房间（仅返回数据，需要外部重建）
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	key := roomKeyPrefix + code
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 房间不存在
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}

	return &roomData, nil
}

// DeleteRoom 从 Redis 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	key := roomKeyPrefix + code
	return rs.client.Del(ctx, key).Err()
}

// GetAllRoomCodes 获取所有已保存的房间号
func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(keys))
	for i, key := range keys {
		codes[i] = key[len(roomKeyPrefix):]
	}
	return codes, nil
}

// --- 历史房间 ---

// AppendRoomHistory 把房间号记入某个身份的历史（按时间排序的 ZSet）
func (rs *RedisStore) AppendRoomHistory(ctx context.Context, identity, code string) error {
	key := historyKeyPrefix + identity
	pipe := rs.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(time.Now().Unix()), Member: code})
	// 只保留最近 historyLimit 条
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-historyLimit-1))
	pipe.Expire(ctx, key, roomExpiration)
	_, err := pipe.Exec(ctx)
	return err
}

// GetRoomHistory 返回某个身份参与过的房间号，新的在前
func (rs *RedisStore) GetRoomHistory(ctx context.Context, identity string) ([]string, error) {
	key := historyKeyPrefix + identity
	return rs.client.ZRevRange(ctx, key, 0, historyLimit-1).Result()
}
